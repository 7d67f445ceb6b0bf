package cmd

import (
	"context"
	"errors"

	"github.com/els0r/telemetry/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voxelsplace/cbm/cbm"
	"github.com/voxelsplace/cbm/cmd/conf"
	"github.com/voxelsplace/cbm/utils"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out> | convert --out-dir DIR --to FORMAT <in>...",
	Short: "Convert meshes between obj, cbm, raw and glb",
	Long: `Convert meshes between obj, cbm, raw and glb

Formats are taken from the file extensions (.dat is read as cbm). With
--out-dir every input is converted to the --to format inside DIR, several
files at a time.
`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: bindFlags(map[string]string{
		conf.ConvertReorder:  "reorder",
		conf.ConvertStrict:   "strict",
		conf.ConvertValidate: "validate",
		conf.ConvertWorkers:  "workers",
		conf.ConvertTo:       "to",
		conf.ConvertOutDir:   "out-dir",
	}),
	RunE: wrapCancellationContext(convertEntrypoint),
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.Bool("reorder", false, "reorder vertices along a Morton curve before encoding")
	flags.Bool("strict", false, "reject reserved header bits and trailing bytes in cbm input")
	flags.Bool("validate", false, "reject faces that reference missing positions")
	flags.Int("workers", 0, "files converted concurrently (0: one per CPU)")
	flags.String("out-dir", "", "batch mode: directory receiving the converted files")
	flags.String("to", cbm.FormatCBM.String(), "batch mode: output format")
}

func convertOptions() utils.ConvertOptions {
	return utils.ConvertOptions{
		Reorder:  viper.GetBool(conf.ConvertReorder),
		Strict:   viper.GetBool(conf.ConvertStrict),
		Validate: viper.GetBool(conf.ConvertValidate),
		Workers:  viper.GetInt(conf.ConvertWorkers),
	}
}

func convertEntrypoint(ctx context.Context, _ *cobra.Command, args []string) error {
	opts := convertOptions()

	outDir := viper.GetString(conf.ConvertOutDir)
	if outDir == "" {
		if len(args) != 2 {
			return errors.New("expected <in> <out>, or --out-dir for several inputs")
		}
		return utils.RunConvert(ctx, args[0], args[1], opts)
	}

	to, err := cbm.ParseFormat(viper.GetString(conf.ConvertTo))
	if err != nil {
		return err
	}
	logging.FromContext(ctx).With("out-dir", outDir).Debugf("batch converting to %s", to)
	return utils.RunConvertBatch(ctx, args, outDir, to, opts)
}
