// Package cbm encodes indexed triangle meshes into a compact binary stream
// that stores each face index in the narrowest width that holds it.
package cbm

import (
	"fmt"
	"math"
)

// Mesh is an indexed triangle mesh. Face indices are opaque: they are copied
// verbatim between formats and are not required to reference existing positions.
type Mesh struct {
	Positions [][3]float32
	Faces     [][3]uint32
}

// IndexRangeError reports a face index that does not reference a position.
type IndexRangeError struct {
	Face        int
	Corner      int
	Index       uint32
	VertexCount int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("face %d corner %d: index %d out of range (%d vertices)", e.Face, e.Corner, e.Index, e.VertexCount)
}

// Equal reports whether both meshes hold the same positions (compared by bit
// pattern, so NaN payloads and signed zeros must match) and the same faces.
func (m *Mesh) Equal(other *Mesh) bool {
	if len(m.Positions) != len(other.Positions) || len(m.Faces) != len(other.Faces) {
		return false
	}
	for i, p := range m.Positions {
		q := other.Positions[i]
		for c := 0; c < 3; c++ {
			if math.Float32bits(p[c]) != math.Float32bits(q[c]) {
				return false
			}
		}
	}
	for i, f := range m.Faces {
		if f != other.Faces[i] {
			return false
		}
	}
	return true
}

// Validate checks that every face index references an existing position.
// Neither the decoder nor the OBJ reader call it on their own.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	for i, f := range m.Faces {
		for c, idx := range f {
			if uint64(idx) >= uint64(n) {
				return &IndexRangeError{Face: i, Corner: c, Index: idx, VertexCount: n}
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the positions. An empty mesh
// yields two zero vectors.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for c := 0; c < 3; c++ {
			if p[c] < lo[c] {
				lo[c] = p[c]
			}
			if p[c] > hi[c] {
				hi[c] = p[c]
			}
		}
	}
	return
}
