package cbm

import (
	"fmt"
	"math"
)

// IndexClass selects the unsigned width used for the first index of a face.
type IndexClass uint8

const (
	IndexU8 IndexClass = iota
	IndexU16
	IndexU32

	numIndexClasses = 3
)

// DeltaClass selects how the second and third index of a face are stored:
// a signed delta from the first index, or the raw value when the delta does
// not fit 32 signed bits.
type DeltaClass uint8

const (
	DeltaI8 DeltaClass = iota
	DeltaI16
	DeltaI32
	DeltaAbs32

	numDeltaClasses = 4
)

var (
	indexWidths = [numIndexClasses]int{1, 2, 4}
	deltaWidths = [numDeltaClasses]int{1, 2, 4, 4}
)

// Width returns the number of payload bytes for the class.
func (c IndexClass) Width() int {
	if c >= numIndexClasses {
		return 4
	}
	return indexWidths[c]
}

func (c IndexClass) String() string {
	switch c {
	case IndexU8:
		return "u8"
	case IndexU16:
		return "u16"
	case IndexU32:
		return "u32"
	}
	return fmt.Sprintf("IndexClass(%d)", uint8(c))
}

// Width returns the number of payload bytes for the class.
func (c DeltaClass) Width() int {
	if c >= numDeltaClasses {
		return 4
	}
	return deltaWidths[c]
}

func (c DeltaClass) String() string {
	switch c {
	case DeltaI8:
		return "i8"
	case DeltaI16:
		return "i16"
	case DeltaI32:
		return "i32"
	case DeltaAbs32:
		return "u32-abs"
	}
	return fmt.Sprintf("DeltaClass(%d)", uint8(c))
}

// ClassifyIndex returns the narrowest unsigned class holding a.
func ClassifyIndex(a uint32) IndexClass {
	switch {
	case a <= math.MaxUint8:
		return IndexU8
	case a <= math.MaxUint16:
		return IndexU16
	default:
		return IndexU32
	}
}

// ClassifyDelta returns the narrowest signed class holding d, or DeltaAbs32 if
// d does not fit 32 signed bits.
func ClassifyDelta(d int64) DeltaClass {
	switch {
	case d >= math.MinInt8 && d <= math.MaxInt8:
		return DeltaI8
	case d >= math.MinInt16 && d <= math.MaxInt16:
		return DeltaI16
	case d >= math.MinInt32 && d <= math.MaxInt32:
		return DeltaI32
	default:
		return DeltaAbs32
	}
}

// FaceHeader is the per-face tag byte: [a:2][b:2][c:2][reserved:2].
type FaceHeader uint8

const (
	shiftA = 6
	shiftB = 4
	shiftC = 2

	classMask    = 0b11
	reservedMask = 0b11
)

// NewFaceHeader packs the three field classes. Reserved bits are zero.
func NewFaceHeader(a IndexClass, b, c DeltaClass) FaceHeader {
	return FaceHeader(uint8(a&classMask)<<shiftA | uint8(b&classMask)<<shiftB | uint8(c&classMask)<<shiftC)
}

// Classes unpacks the three field classes. An 'a' tag of 0b11 is not produced
// by the encoder; it is read as IndexU32.
func (h FaceHeader) Classes() (a IndexClass, b, c DeltaClass) {
	a = IndexClass(uint8(h) >> shiftA & classMask)
	if a >= numIndexClasses {
		a = IndexU32
	}
	b = DeltaClass(uint8(h) >> shiftB & classMask)
	c = DeltaClass(uint8(h) >> shiftC & classMask)
	return
}

// Reserved returns the two low bits, which the encoder always leaves zero.
func (h FaceHeader) Reserved() uint8 {
	return uint8(h) & reservedMask
}

// Size returns the encoded size of the face record including the header byte.
func (h FaceHeader) Size() int {
	a, b, c := h.Classes()
	return 1 + a.Width() + b.Width() + c.Width()
}
