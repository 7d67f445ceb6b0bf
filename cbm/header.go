package cbm

// StreamHeader holds the element counts of a cbm or raw stream.
// FaceOffset is the byte offset of the first face record.
type StreamHeader struct {
	VertexCount uint64
	FaceCount   uint64
	FaceOffset  int
}

// ReadStreamHeader reads both counts without decoding the positions or faces.
func ReadStreamHeader(data []byte) (StreamHeader, error) {
	var hdr StreamHeader
	r := newFieldReader(data)
	n, err := r.readU64("vertex_count")
	if err != nil {
		return hdr, err
	}
	if err := checkPositions(r, n); err != nil {
		return hdr, err
	}
	hdr.VertexCount = n
	r.pos += int(n) * positionSize
	if hdr.FaceCount, err = r.readU64("face_count"); err != nil {
		return hdr, err
	}
	hdr.FaceOffset = r.pos
	return hdr, nil
}
