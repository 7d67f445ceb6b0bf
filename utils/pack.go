package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/els0r/telemetry/logging"
	"github.com/voxelsplace/cbm/api"
	"github.com/voxelsplace/cbm/cbm"
	"golang.org/x/sync/errgroup"
)

// CreatePack reads mesh files of any supported format and writes a .cbmpack
// to outputFile. Entries are named after the input base name with a .cbm
// extension, in input order.
func CreatePack(ctx context.Context, inputFiles []string, outputFile string, comp cbm.Compression, level int, opts ConvertOptions) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no mesh files provided")
	}

	payloads := make([][]byte, len(inputFiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, path := range inputFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := loadEncoded(path, opts)
			if err != nil {
				return err
			}
			payloads[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var pack cbm.Pack
	for i, path := range inputFiles {
		if err := pack.AddEncoded(swapExt(filepath.Base(path), cbm.FormatCBM.Ext()), payloads[i]); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	start := time.Now()
	data, err := pack.Marshal(comp, level)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).With("compression", comp.String(), "output", outputFile).
		Infof("packed %d entries into %d bytes in %d ms", len(pack.Entries), len(data), time.Since(start).Milliseconds())
	return os.WriteFile(outputFile, data, 0o644)
}

// UnpackToDir writes every entry of a .cbmpack into outputDir, converted to
// format to (FormatCBM keeps the stored bytes).
func UnpackToDir(ctx context.Context, packFile, outputDir string, to cbm.Format, opts ConvertOptions) error {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return err
	}
	pack, comp, err := cbm.UnmarshalPack(data)
	if err != nil {
		return fmt.Errorf("%s: %w", packFile, err)
	}
	outputs := make([]string, len(pack.Entries))
	seen := make(map[string]string, len(pack.Entries))
	for i, e := range pack.Entries {
		if e.Name == "" || filepath.Base(e.Name) != e.Name || e.Name == ".." {
			return fmt.Errorf("%s: unsafe entry name %q", packFile, e.Name)
		}
		outputs[i] = filepath.Join(outputDir, swapExt(e.Name, to.Ext()))
		if prev, ok := seen[outputs[i]]; ok {
			return fmt.Errorf("%s: entries %s and %s both map to %s", packFile, prev, e.Name, outputs[i])
		}
		seen[outputs[i]] = e.Name
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	logging.FromContext(ctx).With("compression", comp.String(), "input", packFile).
		Debugf("unpacking %d entries", len(pack.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, e := range pack.Entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := e.Payload
			if to != cbm.FormatCBM || opts.Reorder || opts.Validate || opts.Strict {
				var err error
				if out, err = api.Convert(e.Payload, cbm.FormatCBM, to, opts.apiOptions()); err != nil {
					return fmt.Errorf("entry %s: %w", e.Name, err)
				}
			}
			return os.WriteFile(outputs[i], out, 0o644)
		})
	}
	return g.Wait()
}

// RunPackToGLB converts a .cbmpack into one .glb holding a node per entry.
func RunPackToGLB(ctx context.Context, inPackPath, outGlbPath string) error {
	data, err := os.ReadFile(inPackPath)
	if err != nil {
		return err
	}
	glb, err := api.PackToGLB(data)
	if err != nil {
		return fmt.Errorf("%s: %w", inPackPath, err)
	}
	logging.FromContext(ctx).With("output", outGlbPath).Debugf("wrote %d bytes of glb", len(glb))
	return os.WriteFile(outGlbPath, glb, 0o644)
}
