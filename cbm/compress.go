package cbm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// MaxPackContent caps the decompressed content section of a pack.
var MaxPackContent int64 = 1 << 30

// ErrPackTooLarge is returned when the content expands past MaxPackContent.
var ErrPackTooLarge = errors.New("pack content exceeds size limit")

// Compression indicates the codec applied to the content section of a pack.
type Compression uint8

const (
	CompNone Compression = 0
	CompZlib Compression = 1
	CompZstd Compression = 2
	CompLZ4  Compression = 3

	// DefaultLevel selects each codec's own default.
	DefaultLevel = -1
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZlib:
		return "zlib"
	case CompZstd:
		return "zstd"
	case CompLZ4:
		return "lz4"
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

// ParseCompression maps a codec name to a Compression. The empty string maps
// to CompNone.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompNone, nil
	case "zlib":
		return CompZlib, nil
	case "zstd":
		return CompZstd, nil
	case "lz4":
		return CompLZ4, nil
	}
	return CompNone, fmt.Errorf("unsupported compression %q", s)
}

func compress(c Compression, level int, data []byte) ([]byte, error) {
	switch c {
	case CompNone:
		return data, nil
	case CompZlib:
		if level == DefaultLevel {
			level = zlib.BestCompression
		}
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompZstd:
		encLevel := zstd.SpeedDefault
		if level != DefaultLevel {
			encLevel = zstd.EncoderLevelFromZstd(level)
		}
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(encLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	case CompLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if level != DefaultLevel {
			if err := zw.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
				return nil, err
			}
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported compression: %d", c)
}

func decompress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompNone:
		return data, nil
	case CompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return readLimited(zr)
	case CompZstd:
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(uint64(MaxPackContent)),
		)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return nil, ErrPackTooLarge
		}
		return out, err
	case CompLZ4:
		return readLimited(lz4.NewReader(bytes.NewReader(data)))
	}
	return nil, fmt.Errorf("unsupported compression: %d", c)
}

func readLimited(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, MaxPackContent+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > MaxPackContent {
		return nil, ErrPackTooLarge
	}
	return out, nil
}

// lz4Level maps 0..9 onto the frame levels; 0 selects the fast compressor.
func lz4Level(level int) lz4.CompressionLevel {
	switch {
	case level <= 0:
		return lz4.Fast
	case level >= 9:
		return lz4.Level9
	}
	return lz4.CompressionLevel(1 << (8 + level))
}
