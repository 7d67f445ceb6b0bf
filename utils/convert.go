package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/els0r/telemetry/logging"
	"github.com/voxelsplace/cbm/api"
	"github.com/voxelsplace/cbm/cbm"
	"golang.org/x/sync/errgroup"
)

// ConvertOptions controls how meshes are decoded and re-encoded by the drivers.
type ConvertOptions struct {
	Reorder  bool
	Strict   bool // reject reserved header bits and trailing bytes
	Validate bool
	Workers  int // <= 0 uses one worker per CPU
}

func (o ConvertOptions) apiOptions() api.Options {
	opts := api.Options{Reorder: o.Reorder, Validate: o.Validate}
	if o.Strict {
		opts.Decode = append(opts.Decode, cbm.WithStrictHeader(), cbm.WithStrictLength())
	}
	return opts
}

func (o ConvertOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// swapExt replaces the extension of a file name.
func swapExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// RunConvert converts inPath to outPath, picking both formats from the file
// extensions.
func RunConvert(ctx context.Context, inPath, outPath string, opts ConvertOptions) error {
	from, err := cbm.FormatFromPath(inPath)
	if err != nil {
		return err
	}
	to, err := cbm.FormatFromPath(outPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := api.Convert(data, from, to, opts.apiOptions())
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}

	logging.FromContext(ctx).With("input", inPath, "output", outPath).
		Debugf("converted %s -> %s (%d -> %d bytes) in %s", from, to, len(data), len(out), time.Since(start))
	return nil
}

// RunConvertBatch converts every input into outDir using format to. Files are
// processed concurrently; the first failure cancels the rest and is returned.
func RunConvertBatch(ctx context.Context, inputs []string, outDir string, to cbm.Format, opts ConvertOptions) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files")
	}
	if to == cbm.FormatUnknown {
		return fmt.Errorf("no output format")
	}

	outputs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		outputs[i] = filepath.Join(outDir, swapExt(filepath.Base(in), to.Ext()))
		if prev, ok := seen[outputs[i]]; ok {
			return fmt.Errorf("%s and %s both map to %s", prev, in, outputs[i])
		}
		seen[outputs[i]] = in
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	logger := logging.FromContext(ctx).With("workers", opts.workers())
	logger.Infof("converting %d files to %s", len(inputs), to)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return RunConvert(gctx, in, outputs[i], opts)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Infof("converted %d files in %d ms", len(inputs), time.Since(start).Milliseconds())
	return nil
}

// loadEncoded reads a mesh file of any supported format and returns its
// compact binary encoding.
func loadEncoded(path string, opts ConvertOptions) ([]byte, error) {
	from, err := cbm.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := api.Convert(data, from, cbm.FormatCBM, opts.apiOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
