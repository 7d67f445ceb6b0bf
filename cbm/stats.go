package cbm

// Stats summarizes how the faces of a mesh distribute over the width classes
// and what the compact encoding saves compared to the raw format.
type Stats struct {
	Vertices     uint64                  `json:"vertices" yaml:"vertices"`
	Faces        uint64                  `json:"faces" yaml:"faces"`
	IndexClasses [numIndexClasses]uint64 `json:"index_classes" yaml:"index_classes"`
	DeltaClasses [numDeltaClasses]uint64 `json:"delta_classes" yaml:"delta_classes"`
	EncodedBytes int                     `json:"encoded_bytes" yaml:"encoded_bytes"`
	RawBytes     int                     `json:"raw_bytes" yaml:"raw_bytes"`
	Ratio        float64                 `json:"ratio" yaml:"ratio"`
}

func (s *Stats) add(h FaceHeader) {
	a, b, c := h.Classes()
	s.IndexClasses[a]++
	s.DeltaClasses[b]++
	s.DeltaClasses[c]++
	s.EncodedBytes += h.Size()
}

func (s *Stats) finish() {
	base := 2*countSize + positionSize*int(s.Vertices)
	s.EncodedBytes += base
	s.RawBytes = base + rawFaceSize*int(s.Faces)
	if s.RawBytes > 0 {
		s.Ratio = float64(s.EncodedBytes) / float64(s.RawBytes)
	}
}

// ComputeStats classifies every face the way Encode does.
func ComputeStats(m *Mesh) Stats {
	s := Stats{Vertices: uint64(len(m.Positions)), Faces: uint64(len(m.Faces))}
	for _, f := range m.Faces {
		s.add(classifyFace(f).header)
	}
	s.finish()
	return s
}

// ScanStats walks the face headers of an encoded stream without building the
// mesh. Reserved header bits are ignored.
func ScanStats(data []byte) (Stats, error) {
	hdr, err := ReadStreamHeader(data)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Vertices: hdr.VertexCount, Faces: hdr.FaceCount}
	r := newFieldReader(data)
	r.pos = hdr.FaceOffset
	for i := uint64(0); i < hdr.FaceCount; i++ {
		h, err := readFaceHeader(r, i, false)
		if err != nil {
			return Stats{}, err
		}
		a, b, c := h.Classes()
		if _, err := r.take(a.Width(), "faces", i, "a"); err != nil {
			return Stats{}, err
		}
		if _, err := r.take(b.Width(), "faces", i, "b"); err != nil {
			return Stats{}, err
		}
		if _, err := r.take(c.Width(), "faces", i, "c"); err != nil {
			return Stats{}, err
		}
		s.add(h)
	}
	s.finish()
	return s, nil
}
