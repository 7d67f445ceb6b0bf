package api

import (
	"fmt"
	"sort"

	"github.com/voxelsplace/cbm/cbm"
)

// OBJToCBM converts OBJ text to a compact binary stream.
func OBJToCBM(objBytes []byte) ([]byte, error) {
	return Convert(objBytes, cbm.FormatOBJ, cbm.FormatCBM, Options{})
}

// CBMToOBJ converts a compact binary stream to OBJ text.
func CBMToOBJ(cbmBytes []byte) ([]byte, error) {
	return Convert(cbmBytes, cbm.FormatCBM, cbm.FormatOBJ, Options{})
}

// Options tunes Convert.
type Options struct {
	Reorder  bool // apply cbm.Reorder before encoding
	Validate bool // reject faces referencing missing positions, whatever the input format
	Decode   []cbm.DecodeOption
}

// Unmarshal decodes a mesh of any supported format, GLB included.
func Unmarshal(data []byte, f cbm.Format, opts ...cbm.DecodeOption) (*cbm.Mesh, error) {
	if f == cbm.FormatGLB {
		return GLBToMesh(data)
	}
	return cbm.Unmarshal(data, f, opts...)
}

// Marshal encodes a mesh into any supported format, GLB included.
func Marshal(m *cbm.Mesh, f cbm.Format) ([]byte, error) {
	if f == cbm.FormatGLB {
		return MeshToGLB(m)
	}
	return cbm.Marshal(m, f)
}

// Convert decodes data as from and re-encodes it as to.
func Convert(data []byte, from, to cbm.Format, opts Options) ([]byte, error) {
	m, err := Unmarshal(data, from, opts.Decode...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", from, err)
	}
	if opts.Validate {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Reorder {
		m = cbm.Reorder(m)
	}
	out, err := Marshal(m, to)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", to, err)
	}
	return out, nil
}

// PackMeshes builds a .cbmpack from compact binary blobs keyed by entry name.
// Every blob must decode; entries are stored in name order.
func PackMeshes(files map[string][]byte, comp cbm.Compression, level int) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var pack cbm.Pack
	for _, name := range names {
		if _, err := cbm.Decode(files[name]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := pack.AddEncoded(name, files[name]); err != nil {
			return nil, err
		}
	}
	return pack.Marshal(comp, level)
}

// UnpackToMemory returns entry name -> compact binary bytes from a .cbmpack blob.
func UnpackToMemory(packBytes []byte) (map[string][]byte, error) {
	pack, _, err := cbm.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(pack.Entries))
	for _, e := range pack.Entries {
		out[e.Name] = e.Payload
	}
	return out, nil
}

// Describe returns the stream statistics of a compact binary blob.
func Describe(cbmBytes []byte) (cbm.Stats, error) {
	return cbm.ScanStats(cbmBytes)
}
