package cbm

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIndex(t *testing.T) {
	var tests = []struct {
		a      uint32
		expect IndexClass
	}{
		{0, IndexU8},
		{255, IndexU8},
		{256, IndexU16},
		{65535, IndexU16},
		{65536, IndexU32},
		{math.MaxUint32, IndexU32},
	}

	for _, test := range tests {
		t.Run(fmt.Sprint(test.a), func(t *testing.T) {
			assert.Equal(t, test.expect, ClassifyIndex(test.a))
		})
	}
}

func TestClassifyDelta(t *testing.T) {
	var tests = []struct {
		d      int64
		expect DeltaClass
	}{
		{0, DeltaI8},
		{127, DeltaI8},
		{-128, DeltaI8},
		{128, DeltaI16},
		{-129, DeltaI16},
		{32767, DeltaI16},
		{-32768, DeltaI16},
		{32768, DeltaI32},
		{-32769, DeltaI32},
		{math.MaxInt32, DeltaI32},
		{math.MinInt32, DeltaI32},
		{math.MaxInt32 + 1, DeltaAbs32},
		{math.MinInt32 - 1, DeltaAbs32},
		{math.MaxUint32, DeltaAbs32},
		{-math.MaxUint32, DeltaAbs32},
	}

	for _, test := range tests {
		t.Run(fmt.Sprint(test.d), func(t *testing.T) {
			assert.Equal(t, test.expect, ClassifyDelta(test.d))
		})
	}
}

func TestFaceHeaderPacking(t *testing.T) {
	for a := IndexClass(0); a < numIndexClasses; a++ {
		for b := DeltaClass(0); b < numDeltaClasses; b++ {
			for c := DeltaClass(0); c < numDeltaClasses; c++ {
				h := NewFaceHeader(a, b, c)
				assert.Zero(t, h.Reserved())

				ga, gb, gc := h.Classes()
				assert.Equal(t, a, ga)
				assert.Equal(t, b, gb)
				assert.Equal(t, c, gc)
				assert.Equal(t, 1+a.Width()+b.Width()+c.Width(), h.Size())
			}
		}
	}

	assert.Equal(t, FaceHeader(0b10_11_01_00), NewFaceHeader(IndexU32, DeltaAbs32, DeltaI16))
	assert.Equal(t, FaceHeader(0b01_00_10_00), NewFaceHeader(IndexU16, DeltaI8, DeltaI32))
}

func TestFaceHeaderUnusedIndexTag(t *testing.T) {
	// 0b11 for the first field is never written; readers treat it as 32 bits
	a, _, _ := FaceHeader(0b11_00_00_00).Classes()
	assert.Equal(t, IndexU32, a)
	assert.Equal(t, uint8(0b11), FaceHeader(0b00_00_00_11).Reserved())
}

func TestClassStrings(t *testing.T) {
	assert.Equal(t, "u16", IndexU16.String())
	assert.Equal(t, "u32-abs", DeltaAbs32.String())
	assert.Equal(t, "DeltaClass(7)", DeltaClass(7).String())
	assert.Equal(t, 4, DeltaAbs32.Width())
	assert.Equal(t, 2, DeltaI16.Width())
}
