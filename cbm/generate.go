package cbm

import "math/rand"

// GenerateGrid builds a w×h quad grid in the XZ plane, two triangles per quad,
// with vertices in row-major order. When jitter > 0 and r is non-nil every
// vertex gets a random Y offset in [-jitter, jitter].
func GenerateGrid(w, h int, jitter float64, r *rand.Rand) *Mesh {
	if w < 1 || h < 1 {
		return &Mesh{}
	}
	cols := w + 1
	mesh := &Mesh{
		Positions: make([][3]float32, 0, cols*(h+1)),
		Faces:     make([][3]uint32, 0, 2*w*h),
	}
	for z := 0; z <= h; z++ {
		for x := 0; x <= w; x++ {
			var y float32
			if jitter > 0 && r != nil {
				y = float32((r.Float64()*2 - 1) * jitter)
			}
			mesh.Positions = append(mesh.Positions, [3]float32{float32(x), y, float32(z)})
		}
	}
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			base := uint32(z*cols + x)
			addQuad(mesh, base, base+1, base+1+uint32(cols), base+uint32(cols))
		}
	}
	return mesh
}

// addQuad splits the quad v0-v1-v2-v3 (counter-clockwise) into two triangles.
func addQuad(mesh *Mesh, v0, v1, v2, v3 uint32) {
	mesh.Faces = append(mesh.Faces, [3]uint32{v0, v1, v2}, [3]uint32{v0, v2, v3})
}
