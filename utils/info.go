package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/voxelsplace/cbm/api"
	"github.com/voxelsplace/cbm/cbm"
	"gopkg.in/yaml.v3"
)

// Output formats understood by RunInfo.
const (
	InfoText = "text"
	InfoYAML = "yaml"
	InfoJSON = "json"
)

// EntryInfo describes one mesh of a pack.
type EntryInfo struct {
	Name      string `json:"name" yaml:"name"`
	cbm.Stats `yaml:",inline"`
}

// FileInfo describes a mesh or pack file. For formats other than cbm, Stats
// describes what the compact encoding of the mesh would look like.
type FileInfo struct {
	Path        string      `json:"path" yaml:"path"`
	Format      string      `json:"format" yaml:"format"`
	Size        int         `json:"size" yaml:"size"`
	Compression string      `json:"compression,omitempty" yaml:"compression,omitempty"`
	Stats       *cbm.Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
	Entries     []EntryInfo `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// Inspect reads path and collects its statistics. Pack files are recognized
// by their magic regardless of extension.
func Inspect(path string) (*FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info := &FileInfo{Path: path, Size: len(data)}

	if bytes.HasPrefix(data, []byte("CBMPACK")) {
		pack, comp, err := cbm.UnmarshalPack(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		info.Format = "cbmpack"
		info.Compression = comp.String()
		for _, e := range pack.Entries {
			s, err := cbm.ScanStats(e.Payload)
			if err != nil {
				return nil, fmt.Errorf("%s: entry %s: %w", path, e.Name, err)
			}
			info.Entries = append(info.Entries, EntryInfo{Name: e.Name, Stats: s})
		}
		return info, nil
	}

	f, err := cbm.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	info.Format = f.String()

	var s cbm.Stats
	if f == cbm.FormatCBM {
		s, err = cbm.ScanStats(data)
	} else {
		var m *cbm.Mesh
		if m, err = api.Unmarshal(data, f); err == nil {
			s = cbm.ComputeStats(m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info.Stats = &s
	return info, nil
}

// RunInfo inspects path and writes the result to w in the given output format.
func RunInfo(w io.Writer, path, format string) error {
	info, err := Inspect(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case InfoText, "":
		return printInfo(w, info)
	case InfoYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case InfoJSON:
		return jsoniter.NewEncoder(w).Encode(info)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

func printInfo(w io.Writer, info *FileInfo) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, %d bytes)\n", info.Path, info.Format, info.Size)
	if info.Compression != "" {
		fmt.Fprintf(&sb, "  compression: %s\n", info.Compression)
	}
	if info.Stats != nil {
		writeStats(&sb, "  ", *info.Stats)
	}
	for _, e := range info.Entries {
		fmt.Fprintf(&sb, "  %s\n", e.Name)
		writeStats(&sb, "    ", e.Stats)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeStats(sb *strings.Builder, indent string, s cbm.Stats) {
	fmt.Fprintf(sb, "%svertices: %d\n", indent, s.Vertices)
	fmt.Fprintf(sb, "%sfaces:    %d\n", indent, s.Faces)
	fmt.Fprintf(sb, "%sa:        u8=%d u16=%d u32=%d\n", indent,
		s.IndexClasses[cbm.IndexU8], s.IndexClasses[cbm.IndexU16], s.IndexClasses[cbm.IndexU32])
	fmt.Fprintf(sb, "%sb/c:      i8=%d i16=%d i32=%d abs=%d\n", indent,
		s.DeltaClasses[cbm.DeltaI8], s.DeltaClasses[cbm.DeltaI16], s.DeltaClasses[cbm.DeltaI32], s.DeltaClasses[cbm.DeltaAbs32])
	fmt.Fprintf(sb, "%sencoded:  %d bytes (raw %d, ratio %.3f)\n", indent, s.EncodedBytes, s.RawBytes, s.Ratio)
}
