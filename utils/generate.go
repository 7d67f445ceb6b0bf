package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/voxelsplace/cbm/cbm"
)

// RunGenerateGrid writes a w×h grid mesh with Y jitter to outPath, in the
// format given by its extension. A zero seed picks one from the clock.
func RunGenerateGrid(w, h int, jitter float64, seed int64, outPath string) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("grid size must be positive, got %dx%d", w, h)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mesh := cbm.GenerateGrid(w, h, jitter, rand.New(rand.NewSource(seed)))
	if err := cbm.SaveMesh(mesh, outPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outPath, err)
	}
	return nil
}

// RunGenerateGrids writes amount grids named 0.cbm..(amount-1).cbm into
// outDir, each with a jitter uniformly sampled in [jitterMin, jitterMax].
func RunGenerateGrids(w, h int, jitterMin, jitterMax float64, amount int, outDir string, seed int64) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("grid size must be positive, got %dx%d", w, h)
	}
	if amount < 0 {
		amount = 0
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if jitterMin < 0 {
		jitterMin = 0
	}
	if jitterMax < jitterMin {
		jitterMin, jitterMax = jitterMax, jitterMin
	}

	baseSeed := uint64(seed)
	if seed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}
	for i := 0; i < amount; i++ {
		// per-file seeds along a Weyl sequence
		const weyl = uint64(0x9e3779b97f4a7c15)
		s := baseSeed ^ (uint64(i)+1)*weyl
		r := rand.New(rand.NewSource(int64(s & 0x7fffffffffffffff)))

		jitter := jitterMin
		if jitterMax > jitterMin {
			jitter = jitterMin + r.Float64()*(jitterMax-jitterMin)
		}

		path := filepath.Join(outDir, fmt.Sprintf("%d%s", i, cbm.FormatCBM.Ext()))
		if err := cbm.SaveMesh(cbm.GenerateGrid(w, h, jitter, r), path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
	}
	return nil
}
