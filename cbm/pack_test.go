package cbm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPack(t *testing.T) *Pack {
	var p Pack
	require.Nil(t, p.Add("triangle", triangleMesh()))
	require.Nil(t, p.Add("grid", GenerateGrid(8, 4, 0, nil)))
	require.Nil(t, p.Add("empty", &Mesh{}))
	return &p
}

func TestPackRoundTrip(t *testing.T) {
	for _, comp := range []Compression{CompNone, CompZlib, CompZstd, CompLZ4} {
		for _, level := range []int{DefaultLevel, 1, 9} {
			t.Run(fmt.Sprintf("%s_%d", comp, level), func(t *testing.T) {
				p := testPack(t)
				data, err := p.Marshal(comp, level)
				require.Nil(t, err)
				assert.Equal(t, "CBMPACK", string(data[:7]))
				assert.Equal(t, byte(comp), data[7])

				got, gotComp, err := UnmarshalPack(data)
				require.Nil(t, err)
				assert.Equal(t, comp, gotComp)
				require.Len(t, got.Entries, 3)

				for i, e := range got.Entries {
					assert.Equal(t, p.Entries[i].Name, e.Name)
					assert.Equal(t, p.Entries[i].Payload, e.Payload)
				}
				grid, err := got.Entries[1].Mesh()
				require.Nil(t, err)
				assert.True(t, GenerateGrid(8, 4, 0, nil).Equal(grid))
			})
		}
	}
}

func TestPackDuplicate(t *testing.T) {
	p := testPack(t)
	assert.ErrorIs(t, p.Add("grid", &Mesh{}), ErrDuplicateEntry)

	p.Entries = append(p.Entries, PackEntry{Name: "triangle"})
	_, err := p.Marshal(CompNone, DefaultLevel)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestPackChecksum(t *testing.T) {
	data, err := testPack(t).Marshal(CompNone, DefaultLevel)
	require.Nil(t, err)

	// last byte belongs to the payload of the final entry
	data[len(data)-1] ^= 0xff
	_, _, err = UnmarshalPack(data)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestPackErrors(t *testing.T) {
	_, _, err := UnmarshalPack([]byte("OBJPACK\x00"))
	assert.ErrorIs(t, err, ErrNotPack)

	_, _, err = UnmarshalPack([]byte("CBMPACK"))
	assert.ErrorIs(t, err, ErrNotPack)

	_, _, err = UnmarshalPack([]byte("CBMPACK\x09"))
	assert.ErrorContains(t, err, "unsupported compression")

	data, err := testPack(t).Marshal(CompNone, DefaultLevel)
	require.Nil(t, err)
	for _, cut := range []int{9, 12, len(data) - 1} {
		_, _, err = UnmarshalPack(data[:cut])
		assert.True(t, errors.Is(err, ErrTruncated), "cut %d: %v", cut, err)
	}

	zdata, err := testPack(t).Marshal(CompZstd, DefaultLevel)
	require.Nil(t, err)
	_, _, err = UnmarshalPack(zdata[:len(zdata)/2])
	assert.Error(t, err)
}

func TestEntryMeshError(t *testing.T) {
	e := PackEntry{Name: "broken", Payload: []byte{1}}
	_, err := e.Mesh()
	assert.ErrorIs(t, err, ErrTruncated)
	assert.ErrorContains(t, err, "broken")
}

func TestPackContentLimit(t *testing.T) {
	var p Pack
	require.Nil(t, p.Add("grid.cbm", GenerateGrid(16, 16, 0, nil)))

	for _, comp := range []Compression{CompZlib, CompZstd, CompLZ4} {
		t.Run(comp.String(), func(t *testing.T) {
			data, err := p.Marshal(comp, DefaultLevel)
			require.Nil(t, err)

			defer func(limit int64) { MaxPackContent = limit }(MaxPackContent)
			MaxPackContent = 256

			_, _, err = UnmarshalPack(data)
			if comp == CompZstd {
				assert.Error(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrPackTooLarge)
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompNone, CompZlib, CompZstd, CompLZ4} {
		got, err := ParseCompression(c.String())
		require.Nil(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCompression("")
	require.Nil(t, err)
	assert.Equal(t, CompNone, got)

	_, err = ParseCompression("brotli")
	assert.Error(t, err)
}
