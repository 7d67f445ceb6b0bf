package cbm

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRoundTrip(t *testing.T) {
	m := randomMesh(rand.New(rand.NewSource(7)), 20, 100, 0)
	data := EncodeRaw(m)
	assert.Len(t, data, 16+20*12+100*12)

	got, err := DecodeRaw(data)
	require.Nil(t, err)
	assert.True(t, m.Equal(got))

	// positions are laid out identically in both formats
	assert.Equal(t, Encode(m)[:8+20*12], data[:8+20*12])
}

func TestRawTruncated(t *testing.T) {
	data := EncodeRaw(triangleMesh())

	_, err := DecodeRaw(data[:len(data)-1])
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "faces", fe.Section)
	assert.Equal(t, uint64(0), fe.Item)
	assert.Equal(t, "c", fe.Field)
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeRaw(data[:len(data)-9])
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "a", fe.Field)
}

func TestStats(t *testing.T) {
	m := &Mesh{
		Positions: make([][3]float32, 2),
		Faces: [][3]uint32{
			{0, 1, 2},          // u8 i8 i8
			{300, 0, 300},      // u16 i16 i8
			{0, 1 << 31, 5},    // u8 i32 i8
			{70000, 0, 70000},  // u32 i32 i8
			{0, 0xffffffff, 0}, // u8 abs i8
		},
	}
	expected := Stats{
		Vertices:     2,
		Faces:        5,
		IndexClasses: [3]uint64{3, 1, 1},
		DeltaClasses: [4]uint64{6, 1, 2, 1},
		EncodedBytes: 16 + 24 + 4 + 6 + 7 + 10 + 7,
		RawBytes:     16 + 24 + 5*12,
	}
	expected.Ratio = float64(expected.EncodedBytes) / float64(expected.RawBytes)

	data := Encode(m)
	assert.Equal(t, expected, ComputeStats(m))
	assert.Equal(t, len(data), expected.EncodedBytes)

	scanned, err := ScanStats(data)
	require.Nil(t, err)
	assert.Equal(t, expected, scanned)

	_, err = ScanStats(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestStatsEmpty(t *testing.T) {
	s := ComputeStats(&Mesh{})
	assert.Equal(t, 16, s.EncodedBytes)
	assert.Equal(t, 16, s.RawBytes)
	assert.Equal(t, 1.0, s.Ratio)
}

func TestMeshValidateAndBounds(t *testing.T) {
	m := &Mesh{
		Positions: [][3]float32{{1, -2, 3}, {-4, 5, 0}},
		Faces:     [][3]uint32{{0, 1, 0}, {1, 2, 0}},
	}
	err := m.Validate()
	var ire *IndexRangeError
	require.True(t, errors.As(err, &ire))
	assert.Equal(t, IndexRangeError{Face: 1, Corner: 1, Index: 2, VertexCount: 2}, *ire)

	m.Faces = m.Faces[:1]
	assert.Nil(t, m.Validate())

	lo, hi := m.Bounds()
	assert.Equal(t, [3]float32{-4, -2, 0}, lo)
	assert.Equal(t, [3]float32{1, 5, 3}, hi)

	lo, hi = (&Mesh{}).Bounds()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestMeshEqual(t *testing.T) {
	a := triangleMesh()
	b := triangleMesh()
	assert.True(t, a.Equal(b))

	b.Positions[0][0] = float32(negZero())
	assert.False(t, a.Equal(b), "signed zero must differ")

	b = triangleMesh()
	b.Faces[0][2] = 3
	assert.False(t, a.Equal(b))

	assert.False(t, a.Equal(&Mesh{}))
}

func negZero() float64 {
	var z float64
	return -z
}
