package cbm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrNonTriangularFace is returned for 'f' statements without exactly three indices.
	ErrNonTriangularFace = errors.New("faces must be triangular")

	// ErrBadVertex is returned for 'v' statements without exactly three coordinates.
	ErrBadVertex = errors.New("vertex must have exactly three coordinates")
)

// ParseError reports the OBJ line that could not be parsed.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const maxOBJLine = 1 << 20

// ReadOBJ parses the triangle subset of the Wavefront OBJ format: 'v x y z'
// and 'f a b c' statements. Comments, blank lines and all other statements are
// skipped. Face indices are taken as written, without rebasing.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	mesh := &Mesh{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxOBJLine)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			err = parseVertex(mesh, fields[1:])
		case "f":
			err = parseFace(mesh, fields[1:])
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj after line %d: %w", lineNo, err)
	}
	return mesh, nil
}

func parseVertex(mesh *Mesh, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("%w (got %d)", ErrBadVertex, len(fields))
	}
	var p [3]float32
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		p[i] = float32(v)
	}
	mesh.Positions = append(mesh.Positions, p)
	return nil
}

func parseFace(mesh *Mesh, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("%w (got %d indices)", ErrNonTriangularFace, len(fields))
	}
	var f [3]uint32
	for i, s := range fields {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return err
		}
		f[i] = uint32(v)
	}
	mesh.Faces = append(mesh.Faces, f)
	return nil
}

// WriteOBJ writes one 'v' line per position followed by one 'f' line per face.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	line := make([]byte, 0, 64)
	for _, p := range m.Positions {
		line = append(line[:0], 'v')
		for _, c := range p {
			line = append(line, ' ')
			line = strconv.AppendFloat(line, float64(c), 'f', -1, 32)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	for _, f := range m.Faces {
		line = append(line[:0], 'f')
		for _, idx := range f {
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(idx), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
