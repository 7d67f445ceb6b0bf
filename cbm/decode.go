package cbm

import (
	"fmt"
	"io"
)

type decodeConfig struct {
	strictHeader bool
	strictLength bool
	validate     bool
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

// WithStrictHeader rejects face headers whose reserved bits are set. By
// default any reserved bits are accepted and ignored.
func WithStrictHeader() DecodeOption {
	return func(c *decodeConfig) {
		c.strictHeader = true
	}
}

// WithStrictLength rejects streams with bytes after the last face.
func WithStrictLength() DecodeOption {
	return func(c *decodeConfig) {
		c.strictLength = true
	}
}

// WithValidation checks face indices against the vertex count after decoding.
func WithValidation() DecodeOption {
	return func(c *decodeConfig) {
		c.validate = true
	}
}

// Decode parses a compact binary stream produced by Encode. On failure no
// mesh is returned; truncation is reported as a *FieldError wrapping
// ErrTruncated at the field where the stream ran short.
func Decode(data []byte, opts ...DecodeOption) (*Mesh, error) {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r := newFieldReader(data)
	positions, err := readPositions(r)
	if err != nil {
		return nil, err
	}
	n, err := r.readU64("face_count")
	if err != nil {
		return nil, err
	}
	// every face needs at least four bytes
	capHint := n
	if limit := uint64(r.remaining() / 4); capHint > limit {
		capHint = limit
	}

	mesh := &Mesh{Positions: positions, Faces: make([][3]uint32, 0, capHint)}
	for i := uint64(0); i < n; i++ {
		f, err := readFace(r, i, cfg.strictHeader)
		if err != nil {
			return nil, err
		}
		mesh.Faces = append(mesh.Faces, f)
	}

	if cfg.strictLength && r.remaining() > 0 {
		return nil, fmt.Errorf("%d bytes: %w", r.remaining(), ErrTrailingData)
	}
	if cfg.validate {
		if err := mesh.Validate(); err != nil {
			return nil, err
		}
	}
	return mesh, nil
}

// DecodeFrom reads the whole stream from r and decodes it.
func DecodeFrom(r io.Reader, opts ...DecodeOption) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cbm stream: %w", err)
	}
	return Decode(data, opts...)
}

func readFaceHeader(r *fieldReader, i uint64, strict bool) (FaceHeader, error) {
	b, err := r.take(1, "faces", i, "header")
	if err != nil {
		return 0, err
	}
	h := FaceHeader(b[0])
	if strict && h.Reserved() != 0 {
		return 0, &FieldError{Section: "faces", Item: i, Field: "header", Err: ErrMalformedHeader}
	}
	return h, nil
}

func readFace(r *fieldReader, i uint64, strict bool) (f [3]uint32, err error) {
	h, err := readFaceHeader(r, i, strict)
	if err != nil {
		return f, err
	}
	ac, bc, cc := h.Classes()

	if f[0], err = r.readUnsigned(ac.Width(), "faces", i, "a"); err != nil {
		return f, err
	}
	if f[1], err = readDeltaField(r, f[0], bc, i, "b"); err != nil {
		return f, err
	}
	if f[2], err = readDeltaField(r, f[0], cc, i, "c"); err != nil {
		return f, err
	}
	return f, nil
}

func readDeltaField(r *fieldReader, a uint32, class DeltaClass, i uint64, field string) (uint32, error) {
	if class == DeltaAbs32 {
		return r.readUnsigned(4, "faces", i, field)
	}
	d, err := r.readSigned(class.Width(), "faces", i, field)
	if err != nil {
		return 0, err
	}
	// the subtraction must happen in 64 bits before narrowing
	return uint32(int64(a) - d), nil
}
