package cbm

import (
	"cmp"
	"math"
	"slices"
)

const mortonBits = 21

// Morton3D64 interleaves the low 21 bits of x, y and z.
func Morton3D64(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) |
		(part1By2(uint64(y)) << 1) |
		(part1By2(uint64(z)) << 2)
}

// MortonDecode3D64 is the inverse of Morton3D64.
func MortonDecode3D64(index uint64) (x, y, z uint32) {
	x = uint32(compact1By2(index))
	y = uint32(compact1By2(index >> 1))
	z = uint32(compact1By2(index >> 2))
	return
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}

// quantizer maps positions inside the mesh bounds onto the 21-bit Morton grid.
// All axes share one scale so flat meshes keep their aspect ratio.
type quantizer struct {
	lo    [3]float32
	scale float64
}

func newQuantizer(m *Mesh) quantizer {
	lo, hi := m.Bounds()
	q := quantizer{lo: lo}
	const top = 1<<mortonBits - 1
	var ext float64
	for c := 0; c < 3; c++ {
		ext = max(ext, float64(hi[c])-float64(lo[c]))
	}
	if ext > 0 && !math.IsInf(ext, 0) {
		q.scale = top / ext
	}
	return q
}

func (q quantizer) cell(p [3]float32) (out [3]uint32) {
	const top = 1<<mortonBits - 1
	for c := 0; c < 3; c++ {
		v := (float64(p[c]) - float64(q.lo[c])) * q.scale
		switch {
		case !(v >= 0): // also catches NaN
			v = 0
		case v > top:
			v = top
		}
		out[c] = uint32(v)
	}
	return
}

// Reorder returns a copy of m with vertices sorted along a Morton curve through
// the mesh bounds, faces remapped accordingly and rotated (keeping winding) so
// the smallest index comes first, then sorted by that index. Neighbouring
// triangles end up with close indices, which keeps most deltas in one byte.
// Indices past the last vertex are kept as they are; the other corners of such
// faces are still remapped, but the face is not rotated.
func Reorder(m *Mesh) *Mesh {
	n := len(m.Positions)
	q := newQuantizer(m)
	codes := make([]uint64, n)
	order := make([]int, n)
	for i, p := range m.Positions {
		c := q.cell(p)
		codes[i] = Morton3D64(c[0], c[1], c[2])
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(codes[a], codes[b])
	})

	out := &Mesh{
		Positions: make([][3]float32, n),
		Faces:     make([][3]uint32, len(m.Faces)),
	}
	remap := make([]uint32, n)
	for newIdx, oldIdx := range order {
		out.Positions[newIdx] = m.Positions[oldIdx]
		remap[oldIdx] = uint32(newIdx)
	}

	for i, f := range m.Faces {
		dangling := false
		for k, idx := range f {
			if uint64(idx) >= uint64(n) {
				dangling = true
				continue
			}
			f[k] = remap[idx]
		}
		if !dangling {
			f = rotateMinFirst(f)
		}
		out.Faces[i] = f
	}
	slices.SortStableFunc(out.Faces, func(a, b [3]uint32) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	return out
}

func rotateMinFirst(f [3]uint32) [3]uint32 {
	switch {
	case f[1] < f[0] && f[1] <= f[2]:
		return [3]uint32{f[1], f[2], f[0]}
	case f[2] < f[0] && f[2] < f[1]:
		return [3]uint32{f[2], f[0], f[1]}
	}
	return f
}
