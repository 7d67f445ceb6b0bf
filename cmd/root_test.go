package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxelsplace/cbm/cbm"
	"github.com/voxelsplace/cbm/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	// a nil slice would make cobra fall back to os.Args
	rootCmd.SetArgs(append([]string{}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "grid.obj")
	cbmPath := filepath.Join(dir, "grid.cbm")

	_, err := run(t, "gen", "8", "8", objPath, "--jitter", "0.2", "--seed", "3")
	require.Nil(t, err)

	_, err = run(t, "convert", objPath, cbmPath, "--reorder")
	require.Nil(t, err)

	out, err := run(t, "info", cbmPath, "--format", "json")
	require.Nil(t, err)
	var info utils.FileInfo
	require.Nil(t, jsoniter.Unmarshal([]byte(out), &info))
	assert.Equal(t, uint64(81), info.Stats.Vertices)
	assert.Equal(t, uint64(128), info.Stats.Faces)

	packPath := filepath.Join(dir, "all.cbmpack")
	_, err = run(t, "pack", packPath, objPath, cbmPath, "--compression", "lz4")
	assert.ErrorIs(t, err, cbm.ErrDuplicateEntry, "both inputs map to grid.cbm")

	rawPath := filepath.Join(dir, "other.raw")
	_, err = run(t, "convert", cbmPath, rawPath)
	require.Nil(t, err)
	_, err = run(t, "pack", packPath, cbmPath, rawPath, "--compression", "lz4", "--level", "9")
	require.Nil(t, err)

	unpacked := filepath.Join(dir, "unpacked")
	_, err = run(t, "unpack", packPath, unpacked, "--to", "obj")
	require.Nil(t, err)
	for _, name := range []string{"grid.obj", "other.obj"} {
		_, err := os.Stat(filepath.Join(unpacked, name))
		assert.Nil(t, err, name)
	}

	glbPath := filepath.Join(dir, "all.glb")
	_, err = run(t, "unpack", packPath, glbPath)
	require.Nil(t, err)

	outDir := filepath.Join(dir, "batch")
	_, err = run(t, "convert", "--out-dir", outDir, "--to", "glb", cbmPath, rawPath, "--workers", "2")
	require.Nil(t, err)
	_, err = os.Stat(filepath.Join(outDir, "other.glb"))
	assert.Nil(t, err)
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t)
	assert.ErrorContains(t, err, "no sub-command")

	_, err = run(t, "gen", "x", "2", filepath.Join(dir, "g.cbm"))
	assert.ErrorContains(t, err, "width")

	_, err = run(t, "convert", filepath.Join(dir, "only-one.obj"), "--out-dir", "")
	assert.Error(t, err)

	_, err = run(t, "pack", filepath.Join(dir, "p.cbmpack"), filepath.Join(dir, "missing.obj"), "--compression", "brotli")
	assert.ErrorContains(t, err, "unsupported compression")
}

func TestGenFromEnvironment(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "grids")
	t.Setenv("CBM_GEN_COUNT", "3")
	t.Setenv("CBM_GEN_JITTER", "0.5")
	t.Setenv("CBM_GEN_SEED", "11")

	_, err := run(t, "gen", "4", "4", dir)
	require.Nil(t, err)
	for _, name := range []string{"0.cbm", "1.cbm", "2.cbm"} {
		m, err := cbm.LoadMesh(filepath.Join(dir, name))
		require.Nil(t, err, name)
		assert.Len(t, m.Faces, 32)
	}
	_, err = os.Stat(filepath.Join(dir, "3.cbm"))
	assert.True(t, os.IsNotExist(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.Nil(t, err)
	assert.Contains(t, out, "devel")
}
