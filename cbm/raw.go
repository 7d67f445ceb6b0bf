package cbm

const rawFaceSize = 12

// EncodeRaw serializes the mesh with fixed 32-bit face indices and no per-face
// header. It shares the position block with the compact format and serves as
// the uncompressed baseline.
func EncodeRaw(m *Mesh) []byte {
	dst := make([]byte, 0, 2*countSize+positionSize*len(m.Positions)+rawFaceSize*len(m.Faces))
	dst = appendPositions(dst, m.Positions)
	dst = byteorder.AppendUint64(dst, uint64(len(m.Faces)))
	for _, f := range m.Faces {
		dst = byteorder.AppendUint32(dst, f[0])
		dst = byteorder.AppendUint32(dst, f[1])
		dst = byteorder.AppendUint32(dst, f[2])
	}
	return dst
}

// DecodeRaw parses a stream produced by EncodeRaw.
func DecodeRaw(data []byte) (*Mesh, error) {
	r := newFieldReader(data)
	positions, err := readPositions(r)
	if err != nil {
		return nil, err
	}
	n, err := r.readU64("face_count")
	if err != nil {
		return nil, err
	}
	if rem := r.remaining(); n > uint64(rem/rawFaceSize) {
		return nil, &FieldError{
			Section: "faces",
			Item:    uint64(rem / rawFaceSize),
			Field:   [3]string{"a", "b", "c"}[rem%rawFaceSize/4],
			Need:    4,
			Have:    rem % 4,
			Err:     ErrTruncated,
		}
	}
	faces := make([][3]uint32, n)
	for i := range faces {
		b, _ := r.take(rawFaceSize, "faces", uint64(i), "")
		faces[i] = [3]uint32{byteorder.Uint32(b), byteorder.Uint32(b[4:]), byteorder.Uint32(b[8:])}
	}
	return &Mesh{Positions: positions, Faces: faces}, nil
}
