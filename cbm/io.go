package cbm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a mesh file format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatOBJ
	FormatCBM
	FormatRaw
	FormatGLB
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatCBM:
		return "cbm"
	case FormatRaw:
		return "raw"
	case FormatGLB:
		return "glb"
	}
	return "unknown"
}

// Ext returns the canonical file extension including the dot.
func (f Format) Ext() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// ParseFormat maps a format name (case-insensitive, with or without a leading
// dot) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "obj":
		return FormatOBJ, nil
	case "cbm", "dat":
		return FormatCBM, nil
	case "raw":
		return FormatRaw, nil
	case "glb":
		return FormatGLB, nil
	}
	return FormatUnknown, fmt.Errorf("unsupported mesh format %q", s)
}

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown, fmt.Errorf("%s: no file extension", path)
	}
	return ParseFormat(ext)
}

// Unmarshal decodes a mesh held in memory. GLB is not handled by this package.
func Unmarshal(data []byte, f Format, opts ...DecodeOption) (*Mesh, error) {
	switch f {
	case FormatOBJ:
		return ReadOBJ(bytes.NewReader(data))
	case FormatCBM:
		return Decode(data, opts...)
	case FormatRaw:
		return DecodeRaw(data)
	}
	return nil, fmt.Errorf("cannot decode %s in package cbm", f)
}

// Marshal encodes a mesh into memory. GLB is not handled by this package.
func Marshal(m *Mesh, f Format) ([]byte, error) {
	switch f {
	case FormatOBJ:
		var buf bytes.Buffer
		if err := WriteOBJ(&buf, m); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatCBM:
		return Encode(m), nil
	case FormatRaw:
		return EncodeRaw(m), nil
	}
	return nil, fmt.Errorf("cannot encode %s in package cbm", f)
}

// LoadMesh reads a mesh file, choosing the decoder from the extension.
func LoadMesh(filename string, opts ...DecodeOption) (*Mesh, error) {
	f, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m, err := Unmarshal(data, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// SaveMesh writes a mesh file, choosing the encoder from the extension.
func SaveMesh(m *Mesh, filename string) error {
	f, err := FormatFromPath(filename)
	if err != nil {
		return err
	}
	data, err := Marshal(m, f)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return os.WriteFile(filename, data, 0o644)
}
