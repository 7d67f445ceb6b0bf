package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voxelsplace/cbm/cbm"
	"github.com/voxelsplace/cbm/cmd/conf"
	"github.com/voxelsplace/cbm/utils"
)

var packCmd = &cobra.Command{
	Use:   "pack <out.cbmpack> <in>...",
	Short: "Bundle meshes into a .cbmpack",
	Long: `Bundle meshes into a .cbmpack

Inputs may be in any supported format; each is stored as a cbm entry named
after the input file, with an xxhash64 checksum.
`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: bindFlags(map[string]string{
		conf.PackCompression: "compression",
		conf.PackLevel:       "level",
		conf.ConvertReorder:  "reorder",
		conf.ConvertWorkers:  "workers",
	}),
	RunE: wrapCancellationContext(packEntrypoint),
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <in.cbmpack> <out-dir | out.glb>",
	Short: "Extract the entries of a .cbmpack",
	Long: `Extract the entries of a .cbmpack

Entries are written into the output directory in the --to format. If the
output ends in .glb, all entries are placed side by side in one GLB scene.
`,
	Args: cobra.ExactArgs(2),
	PreRunE: bindFlags(map[string]string{
		conf.ConvertTo:      "to",
		conf.ConvertWorkers: "workers",
	}),
	RunE: wrapCancellationContext(unpackEntrypoint),
}

func init() {
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(unpackCmd)

	flags := packCmd.Flags()
	flags.StringP("compression", "c", cbm.CompZstd.String(), "compression (none, zlib, zstd, lz4)")
	flags.IntP("level", "l", cbm.DefaultLevel, "compression level (-1: codec default)")
	flags.Bool("reorder", false, "reorder vertices along a Morton curve before encoding")
	flags.Int("workers", 0, "files read concurrently (0: one per CPU)")

	unpackCmd.Flags().String("to", cbm.FormatCBM.String(), "format of the extracted files")
	unpackCmd.Flags().Int("workers", 0, "files written concurrently (0: one per CPU)")
}

func packEntrypoint(ctx context.Context, _ *cobra.Command, args []string) error {
	comp, err := cbm.ParseCompression(viper.GetString(conf.PackCompression))
	if err != nil {
		return err
	}
	opts := utils.ConvertOptions{
		Reorder: viper.GetBool(conf.ConvertReorder),
		Workers: viper.GetInt(conf.ConvertWorkers),
	}
	return utils.CreatePack(ctx, args[1:], args[0], comp, viper.GetInt(conf.PackLevel), opts)
}

func unpackEntrypoint(ctx context.Context, _ *cobra.Command, args []string) error {
	if strings.EqualFold(filepath.Ext(args[1]), cbm.FormatGLB.Ext()) {
		return utils.RunPackToGLB(ctx, args[0], args[1])
	}
	to, err := cbm.ParseFormat(viper.GetString(conf.ConvertTo))
	if err != nil {
		return err
	}
	return utils.UnpackToDir(ctx, args[0], args[1], to, utils.ConvertOptions{Workers: viper.GetInt(conf.ConvertWorkers)})
}
