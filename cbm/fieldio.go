package cbm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var byteorder = binary.LittleEndian

var axisNames = [3]string{"x", "y", "z"}

var (
	// ErrTruncated is returned when a stream ends before the field being read.
	ErrTruncated = errors.New("truncated stream")

	// ErrMalformedHeader is returned in strict mode for face headers with reserved bits set.
	ErrMalformedHeader = errors.New("malformed face header")

	// ErrTrailingData is returned in strict mode when bytes follow the last face.
	ErrTrailingData = errors.New("trailing data after last face")

	errBadUvarint = errors.New("invalid uvarint")
)

// FieldError locates a decoding failure at a field boundary.
type FieldError struct {
	Section string // "vertex_count", "positions", "face_count", "faces", "pack", ...
	Item    uint64 // element index within Section
	Field   string // field name within the element, may be empty
	Need    int
	Have    int
	Err     error
}

func (e *FieldError) Error() string {
	loc := e.Section
	if e.Field != "" {
		loc = fmt.Sprintf("%s[%d].%s", e.Section, e.Item, e.Field)
	}
	if e.Need > 0 {
		return fmt.Sprintf("%s: need %d bytes, have %d: %v", loc, e.Need, e.Have, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// fieldReader reads fixed-width little-endian fields from an in-memory stream
// and reports shortfalls instead of panicking.
type fieldReader struct {
	data []byte
	pos  int
}

func newFieldReader(b []byte) *fieldReader { return &fieldReader{data: b} }

func (r *fieldReader) remaining() int { return len(r.data) - r.pos }

// take returns the next n bytes, or a FieldError wrapping ErrTruncated.
func (r *fieldReader) take(n int, section string, item uint64, field string) ([]byte, error) {
	if r.remaining() < n {
		return nil, &FieldError{Section: section, Item: item, Field: field, Need: n, Have: r.remaining(), Err: ErrTruncated}
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *fieldReader) readU64(section string) (uint64, error) {
	b, err := r.take(8, section, 0, "")
	if err != nil {
		return 0, err
	}
	return byteorder.Uint64(b), nil
}

func (r *fieldReader) readF32(section string, item uint64, field string) (float32, error) {
	b, err := r.take(4, section, item, field)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(byteorder.Uint32(b)), nil
}

// readUnsigned reads a 1, 2 or 4 byte unsigned value and zero-extends it.
func (r *fieldReader) readUnsigned(width int, section string, item uint64, field string) (uint32, error) {
	b, err := r.take(width, section, item, field)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint32(b[0]), nil
	case 2:
		return uint32(byteorder.Uint16(b)), nil
	default:
		return byteorder.Uint32(b), nil
	}
}

// readSigned reads a 1, 2 or 4 byte two's complement value and sign-extends it.
func (r *fieldReader) readSigned(width int, section string, item uint64, field string) (int64, error) {
	b, err := r.take(width, section, item, field)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int64(int8(b[0])), nil
	case 2:
		return int64(int16(byteorder.Uint16(b))), nil
	default:
		return int64(int32(byteorder.Uint32(b))), nil
	}
}

func (r *fieldReader) readUvarint(section string, item uint64, field string) (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	switch {
	case n == 0:
		return 0, &FieldError{Section: section, Item: item, Field: field, Err: ErrTruncated}
	case n < 0:
		return 0, &FieldError{Section: section, Item: item, Field: field, Err: errBadUvarint}
	}
	r.pos += n
	return v, nil
}

func appendUnsigned(dst []byte, v uint32, width int) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return byteorder.AppendUint16(dst, uint16(v))
	default:
		return byteorder.AppendUint32(dst, v)
	}
}

// appendSigned writes the low width bytes of d in two's complement. The caller
// guarantees d fits the width.
func appendSigned(dst []byte, d int64, width int) []byte {
	switch width {
	case 1:
		return append(dst, byte(int8(d)))
	case 2:
		return byteorder.AppendUint16(dst, uint16(int16(d)))
	default:
		return byteorder.AppendUint32(dst, uint32(int32(d)))
	}
}

func appendPositions(dst []byte, positions [][3]float32) []byte {
	dst = byteorder.AppendUint64(dst, uint64(len(positions)))
	for _, p := range positions {
		dst = byteorder.AppendUint32(dst, math.Float32bits(p[0]))
		dst = byteorder.AppendUint32(dst, math.Float32bits(p[1]))
		dst = byteorder.AppendUint32(dst, math.Float32bits(p[2]))
	}
	return dst
}

// readPositions reads the vertex count and position block shared by the cbm
// and raw formats.
func readPositions(r *fieldReader) ([][3]float32, error) {
	n, err := r.readU64("vertex_count")
	if err != nil {
		return nil, err
	}
	if err := checkPositions(r, n); err != nil {
		return nil, err
	}
	positions := make([][3]float32, n)
	for i := uint64(0); i < n; i++ {
		for c, name := range axisNames {
			v, err := r.readF32("positions", i, name)
			if err != nil {
				return nil, err
			}
			positions[i][c] = v
		}
	}
	return positions, nil
}

// checkPositions fails with the location of the first missing position byte
// when the stream cannot hold n positions. It runs before any allocation.
func checkPositions(r *fieldReader, n uint64) error {
	rem := r.remaining()
	if n <= uint64(rem)/positionSize {
		return nil
	}
	return &FieldError{
		Section: "positions",
		Item:    uint64(rem / positionSize),
		Field:   axisNames[rem%positionSize/4],
		Need:    4,
		Have:    rem % 4,
		Err:     ErrTruncated,
	}
}
