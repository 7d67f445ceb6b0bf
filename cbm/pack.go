package cbm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
)

const packMagicStr = "CBMPACK"

var (
	// ErrNotPack is returned when the input does not start with the pack magic.
	ErrNotPack = errors.New("not a .cbmpack")

	// ErrChecksum is returned when an entry payload does not match its stored hash.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrDuplicateEntry is returned when two entries share a name.
	ErrDuplicateEntry = errors.New("duplicate entry name")
)

// PackEntry is a single encoded mesh inside a pack.
type PackEntry struct {
	Name    string
	Payload []byte // compact binary stream as produced by Encode
}

// Mesh decodes the entry payload.
func (e PackEntry) Mesh(opts ...DecodeOption) (*Mesh, error) {
	m, err := Decode(e.Payload, opts...)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.Name, err)
	}
	return m, nil
}

// Pack bundles several named meshes into one file.
type Pack struct {
	Entries []PackEntry
	names   map[string]struct{}
}

// Add encodes m and appends it under name.
func (p *Pack) Add(name string, m *Mesh) error {
	return p.AddEncoded(name, Encode(m))
}

// AddEncoded appends an already encoded payload under name.
func (p *Pack) AddEncoded(name string, payload []byte) error {
	if p.names == nil {
		p.names = make(map[string]struct{}, len(p.Entries))
		for _, e := range p.Entries {
			p.names[e.Name] = struct{}{}
		}
	}
	if _, ok := p.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}
	p.names[name] = struct{}{}
	p.Entries = append(p.Entries, PackEntry{Name: name, Payload: payload})
	return nil
}

// Marshal encodes the pack. level is passed to the codec; DefaultLevel picks
// the codec's default.
func (p *Pack) Marshal(comp Compression, level int) ([]byte, error) {
	seen := make(map[string]struct{}, len(p.Entries))
	var content []byte
	content = binary.AppendUvarint(content, uint64(len(p.Entries)))
	for _, e := range p.Entries {
		if _, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, e.Name)
		}
		seen[e.Name] = struct{}{}
		content = binary.AppendUvarint(content, uint64(len(e.Name)))
		content = append(content, e.Name...)
		content = byteorder.AppendUint64(content, xxhash.Sum64(e.Payload))
		content = binary.AppendUvarint(content, uint64(len(e.Payload)))
		content = append(content, e.Payload...)
	}

	body, err := compress(comp, level, content)
	if err != nil {
		return nil, fmt.Errorf("compress pack (%s): %w", comp, err)
	}

	var out bytes.Buffer
	out.Grow(len(packMagicStr) + 1 + len(body))
	out.WriteString(packMagicStr)
	out.WriteByte(byte(comp))
	out.Write(body)
	return out.Bytes(), nil
}

// UnmarshalPack parses a pack and verifies every entry checksum.
func UnmarshalPack(data []byte) (*Pack, Compression, error) {
	if len(data) < len(packMagicStr)+1 || string(data[:len(packMagicStr)]) != packMagicStr {
		return nil, 0, ErrNotPack
	}
	comp := Compression(data[len(packMagicStr)])
	content, err := decompress(comp, data[len(packMagicStr)+1:])
	if err != nil {
		return nil, 0, fmt.Errorf("decompress pack (%s): %w", comp, err)
	}

	r := newFieldReader(content)
	n, err := r.readUvarint("pack", 0, "")
	if err != nil {
		return nil, 0, err
	}
	// each entry needs at least 10 bytes
	if n > uint64(r.remaining()/10) {
		return nil, 0, &FieldError{Section: "pack", Err: ErrTruncated}
	}

	pack := &Pack{Entries: make([]PackEntry, 0, n)}
	for i := uint64(0); i < n; i++ {
		e, err := readPackEntry(r, i)
		if err != nil {
			return nil, 0, err
		}
		if err := pack.AddEncoded(e.Name, e.Payload); err != nil {
			return nil, 0, err
		}
	}
	return pack, comp, nil
}

func readPackEntry(r *fieldReader, i uint64) (PackEntry, error) {
	nameLen, err := r.readUvarint("entries", i, "name_len")
	if err != nil {
		return PackEntry{}, err
	}
	if nameLen > uint64(r.remaining()) {
		return PackEntry{}, &FieldError{Section: "entries", Item: i, Field: "name", Need: int(min(nameLen, 1<<31)), Have: r.remaining(), Err: ErrTruncated}
	}
	name, _ := r.take(int(nameLen), "entries", i, "name")
	sum, err := r.take(8, "entries", i, "checksum")
	if err != nil {
		return PackEntry{}, err
	}
	plen, err := r.readUvarint("entries", i, "payload_len")
	if err != nil {
		return PackEntry{}, err
	}
	if plen > uint64(r.remaining()) {
		return PackEntry{}, &FieldError{Section: "entries", Item: i, Field: "payload", Need: int(min(plen, 1<<31)), Have: r.remaining(), Err: ErrTruncated}
	}
	payload, _ := r.take(int(plen), "entries", i, "payload")

	e := PackEntry{Name: string(name), Payload: append([]byte(nil), payload...)}
	if xxhash.Sum64(e.Payload) != byteorder.Uint64(sum) {
		return PackEntry{}, fmt.Errorf("entry %s: %w", e.Name, ErrChecksum)
	}
	return e, nil
}
