package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voxelsplace/cbm/cmd/conf"
	"github.com/voxelsplace/cbm/utils"
)

var genCmd = &cobra.Command{
	Use:   "gen <w> <h> <out>",
	Short: "Generate a grid mesh",
	Long: `Generate a grid mesh

Builds a w×h quad grid in the XZ plane with random Y jitter. With --count N
the output is a directory receiving 0.cbm..N-1.cbm, each with a jitter drawn
from [--jitter-min, --jitter].
`,
	Args: cobra.ExactArgs(3),
	PreRunE: bindFlags(map[string]string{
		conf.GenJitter:    "jitter",
		conf.GenJitterMin: "jitter-min",
		conf.GenSeed:      "seed",
		conf.GenCount:     "count",
	}),
	RunE: genEntrypoint,
}

func init() {
	rootCmd.AddCommand(genCmd)

	flags := genCmd.Flags()
	flags.Float64("jitter", 0, "maximum Y offset of every vertex")
	flags.Float64("jitter-min", 0, "lower bound of the per-file jitter with --count")
	flags.Int64("seed", 0, "random seed (0: from the clock)")
	flags.Int("count", 1, "number of meshes to generate")
}

func genEntrypoint(_ *cobra.Command, args []string) error {
	w, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}

	jitter := viper.GetFloat64(conf.GenJitter)
	jitterMin := viper.GetFloat64(conf.GenJitterMin)
	seed := viper.GetInt64(conf.GenSeed)
	count := viper.GetInt(conf.GenCount)

	if count == 1 {
		return utils.RunGenerateGrid(w, h, jitter, seed, args[2])
	}
	return utils.RunGenerateGrids(w, h, jitterMin, jitter, count, args[2], seed)
}
