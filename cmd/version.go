package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voxelsplace/cbm/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.Version())
	},
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
