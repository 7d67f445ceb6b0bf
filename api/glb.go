package api

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/voxelsplace/cbm/cbm"
)

// ErrUnsupportedPrimitive is returned for glTF primitives that are not plain triangle lists.
var ErrUnsupportedPrimitive = errors.New("only triangle list primitives are supported")

// MeshToGLB exports the mesh as a binary glTF with positions, area-weighted
// vertex normals and uint32 indices. Faces must reference existing positions.
func MeshToGLB(m *cbm.Mesh) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	doc := newDocument()
	if len(m.Positions) > 0 {
		addMesh(doc, "Mesh", m)
	}
	return encodeGLB(doc)
}

// PackToGLB exports every entry of a .cbmpack as its own glTF mesh and node.
// Entries are laid out side by side on a square grid in the XZ plane, each
// cell sized to the largest entry.
func PackToGLB(packBytes []byte) ([]byte, error) {
	pack, _, err := cbm.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	if len(pack.Entries) == 0 {
		return nil, fmt.Errorf("empty pack")
	}

	meshes := make([]*cbm.Mesh, len(pack.Entries))
	var stepX, stepZ float32
	for i, e := range pack.Entries {
		m, err := e.Mesh(cbm.WithValidation())
		if err != nil {
			return nil, err
		}
		lo, hi := m.Bounds()
		stepX = max(stepX, hi[0]-lo[0])
		stepZ = max(stepZ, hi[2]-lo[2])
		meshes[i] = m
	}

	doc := newDocument()
	cols := int(math.Ceil(math.Sqrt(float64(len(meshes)))))
	for i, m := range meshes {
		if len(m.Positions) == 0 {
			continue
		}
		lo, _ := m.Bounds()
		offset := [3]float32{float32(i%cols)*stepX - lo[0], 0, float32(i/cols)*stepZ - lo[2]}
		placed := &cbm.Mesh{Positions: make([][3]float32, len(m.Positions)), Faces: m.Faces}
		for vi, p := range m.Positions {
			placed.Positions[vi] = [3]float32{p[0] + offset[0], p[1], p[2] + offset[2]}
		}
		addMesh(doc, pack.Entries[i].Name, placed)
	}
	return encodeGLB(doc)
}

func newDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "cbmtool"
	pbr := &gltf.PBRMetallicRoughness{
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	doc.Materials = []*gltf.Material{{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}}
	return doc
}

// addMesh appends m as a new mesh and node of the default scene. A mesh
// without faces becomes a point primitive.
func addMesh(doc *gltf.Document, name string, m *cbm.Mesh) {
	indices := make([]uint32, 0, 3*len(m.Faces))
	for _, f := range m.Faces {
		indices = append(indices, f[0], f[1], f[2])
	}

	posAccessor := modeler.WritePosition(doc, m.Positions)
	normalAccessor := modeler.WriteNormal(doc, vertexNormals(m))
	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: posAccessor,
			gltf.NORMAL:   normalAccessor,
		},
		Mode:     gltf.PrimitiveTriangles,
		Material: gltf.Index(0),
	}
	if len(indices) > 0 {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	} else {
		prim.Mode = gltf.PrimitivePoints
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
}

func encodeGLB(doc *gltf.Document) ([]byte, error) {
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// vertexNormals sums the unnormalized face normals at each corner, so larger
// triangles weigh more, then normalizes. Isolated vertices get a zero normal.
func vertexNormals(m *cbm.Mesh) [][3]float32 {
	acc := make([][3]float64, len(m.Positions))
	for _, f := range m.Faces {
		p0, p1, p2 := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		e1 := [3]float64{float64(p1[0] - p0[0]), float64(p1[1] - p0[1]), float64(p1[2] - p0[2])}
		e2 := [3]float64{float64(p2[0] - p0[0]), float64(p2[1] - p0[1]), float64(p2[2] - p0[2])}
		cross := [3]float64{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, v := range f {
			acc[v][0] += cross[0]
			acc[v][1] += cross[1]
			acc[v][2] += cross[2]
		}
	}

	normals := make([][3]float32, len(acc))
	for i, n := range acc {
		length := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if length > 0 && !math.IsInf(length, 0) {
			normals[i] = [3]float32{float32(n[0] / length), float32(n[1] / length), float32(n[2] / length)}
		}
	}
	return normals
}

// GLBToMesh imports every triangle primitive of every mesh in a binary glTF
// into one mesh. Primitive indices are rebased onto the merged vertex list and
// non-indexed primitives get sequential indices. Non-indexed point primitives
// contribute vertices only.
func GLBToMesh(glbBytes []byte) (*cbm.Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(glbBytes)).Decode(doc); err != nil {
		return nil, fmt.Errorf("parse glb: %w", err)
	}

	mesh := &cbm.Mesh{}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if err := appendPrimitive(mesh, doc, prim); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	return mesh, nil
}

func appendPrimitive(mesh *cbm.Mesh, doc *gltf.Document, prim *gltf.Primitive) error {
	pointsOnly := prim.Mode == gltf.PrimitivePoints && prim.Indices == nil
	if prim.Mode != gltf.PrimitiveTriangles && !pointsOnly {
		return fmt.Errorf("%w (mode %d)", ErrUnsupportedPrimitive, prim.Mode)
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok || posIdx < 0 || posIdx >= len(doc.Accessors) {
		return errors.New("missing POSITION accessor")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	if pointsOnly {
		mesh.Positions = append(mesh.Positions, positions...)
		return nil
	}

	var indices []uint32
	if prim.Indices != nil {
		if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
			return fmt.Errorf("indices accessor %d out of range", *prim.Indices)
		}
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%d indices do not form whole triangles", len(indices))
	}

	base := uint32(len(mesh.Positions))
	mesh.Positions = append(mesh.Positions, positions...)
	for i := 0; i < len(indices); i += 3 {
		mesh.Faces = append(mesh.Faces, [3]uint32{base + indices[i], base + indices[i+1], base + indices[i+2]})
	}
	return nil
}
