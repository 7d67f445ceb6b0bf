package cbm

import (
	"fmt"
	"io"
)

const (
	countSize    = 8
	positionSize = 12
	maxFaceSize  = 1 + 4 + 4 + 4
)

// faceFields holds the classified fields of one face, ready to be written.
type faceFields struct {
	header FaceHeader
	a      uint32
	b, c   deltaField
}

type deltaField struct {
	class DeltaClass
	delta int64
	raw   uint32
}

func classifyField(a, v uint32) deltaField {
	// both operands fit 32 bits, so the 64-bit difference never overflows
	d := int64(a) - int64(v)
	return deltaField{class: ClassifyDelta(d), delta: d, raw: v}
}

func classifyFace(f [3]uint32) faceFields {
	ff := faceFields{
		a: f[0],
		b: classifyField(f[0], f[1]),
		c: classifyField(f[0], f[2]),
	}
	ff.header = NewFaceHeader(ClassifyIndex(f[0]), ff.b.class, ff.c.class)
	return ff
}

func (d deltaField) appendTo(dst []byte) []byte {
	if d.class == DeltaAbs32 {
		return byteorder.AppendUint32(dst, d.raw)
	}
	return appendSigned(dst, d.delta, d.class.Width())
}

func appendFace(dst []byte, f [3]uint32) []byte {
	ff := classifyFace(f)
	a, _, _ := ff.header.Classes()
	dst = append(dst, byte(ff.header))
	dst = appendUnsigned(dst, ff.a, a.Width())
	dst = ff.b.appendTo(dst)
	return ff.c.appendTo(dst)
}

// Encode serializes the mesh into the compact binary format. It does not
// modify m and the output depends only on its contents.
func Encode(m *Mesh) []byte {
	size := 2*countSize + positionSize*len(m.Positions) + maxFaceSize*len(m.Faces)
	return AppendEncoded(make([]byte, 0, size), m)
}

// AppendEncoded appends the compact binary encoding of m to dst.
func AppendEncoded(dst []byte, m *Mesh) []byte {
	dst = appendPositions(dst, m.Positions)
	dst = byteorder.AppendUint64(dst, uint64(len(m.Faces)))
	for _, f := range m.Faces {
		dst = appendFace(dst, f)
	}
	return dst
}

// EncodeTo writes the compact binary encoding of m to w.
func EncodeTo(w io.Writer, m *Mesh) error {
	if _, err := w.Write(Encode(m)); err != nil {
		return fmt.Errorf("write cbm stream: %w", err)
	}
	return nil
}
