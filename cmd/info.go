package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voxelsplace/cbm/cmd/conf"
	"github.com/voxelsplace/cbm/utils"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Show counts, width class histograms and size ratios",
	Long: `Show counts, width class histograms and size ratios

For .cbm files the face headers are scanned without decoding the mesh. Other
mesh formats report what their compact encoding would look like, and packs
list every entry.
`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: bindFlags(map[string]string{conf.InfoFormat: "format"}),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := viper.GetString(conf.InfoFormat)
		for _, path := range args {
			if err := utils.RunInfo(cmd.OutOrStdout(), path, format); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringP("format", "f", utils.InfoText, "output format (text, yaml, json)")
}
