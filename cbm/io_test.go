package cbm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	var tests = []struct {
		in     string
		expect Format
	}{
		{"obj", FormatOBJ},
		{".OBJ", FormatOBJ},
		{"cbm", FormatCBM},
		{".dat", FormatCBM},
		{"raw", FormatRaw},
		{"glb", FormatGLB},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			f, err := ParseFormat(test.in)
			require.Nil(t, err)
			assert.Equal(t, test.expect, f)
		})
	}

	_, err := ParseFormat("stl")
	assert.Error(t, err)
	_, err = FormatFromPath("mesh")
	assert.Error(t, err)

	assert.Equal(t, ".cbm", FormatCBM.Ext())
	assert.Equal(t, "", FormatUnknown.Ext())
}

func TestLoadSaveMesh(t *testing.T) {
	dir := t.TempDir()
	m := GenerateGrid(4, 4, 0, nil)

	for _, ext := range []string{".obj", ".cbm", ".raw", ".dat"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "grid"+ext)
			require.Nil(t, SaveMesh(m, path))

			got, err := LoadMesh(path)
			require.Nil(t, err)
			assert.True(t, m.Equal(got))
		})
	}

	assert.Error(t, SaveMesh(m, filepath.Join(dir, "grid.glb")))
	assert.Error(t, SaveMesh(m, filepath.Join(dir, "grid.stl")))

	_, err := LoadMesh(filepath.Join(dir, "missing.cbm"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.cbm")
	require.Nil(t, os.WriteFile(bad, []byte{1, 2, 3}, 0o644))
	_, err = LoadMesh(bad)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.ErrorContains(t, err, "bad.cbm")
}
