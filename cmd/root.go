package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/els0r/telemetry/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voxelsplace/cbm/cmd/conf"
	"github.com/voxelsplace/cbm/version"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cbmtool",
	Short: "Compact binary mesh tool",
	Long: `cbmtool converts triangle meshes between OBJ, raw, GLB and the compact
binary mesh format (.cbm), bundles them into .cbmpack containers and reports
how well the per-face width classes compress a mesh.
`,
	RunE:          rootEntrypoint,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the main entrypoint and runs the CLI tool
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger, logErr := logging.New(logging.LevelError, logging.EncodingPlain,
			logging.WithOutput(os.Stderr),
		)
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to instantiate CLI logger: %v\n", logErr)
			fmt.Fprintf(os.Stderr, "Error running command: %s\n", err)
			os.Exit(1)
		}
		logger.Fatalf("Error running command: %s", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogger)

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	pflags.String(conf.LogLevel, logging.LevelWarn.String(), "log level (debug, info, warn, error)")
	pflags.String(conf.LogEncoding, string(logging.EncodingLogfmt), "log encoding (logfmt, json, plain)")

	_ = viper.BindPFlags(pflags)
}

// initConfig reads in config file and ENV variables if set. Every key in conf
// can be set as CBM_<SECTION>_<KEY>, e.g. CBM_PACK_COMPRESSION.
func initConfig() {
	viper.SetEnvPrefix(conf.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config from file %s: %v\n", viper.GetViper().ConfigFileUsed(), err)
		os.Exit(1)
	}
}

func initLogger() {
	// warnings and errors only by default, this is a command line tool
	err := logging.Init(logging.LevelFromString(viper.GetString(conf.LogLevel)),
		logging.Encoding(viper.GetString(conf.LogEncoding)),
		logging.WithVersion(version.Short()),
		logging.WithOutput(os.Stdout),
		logging.WithErrorOutput(os.Stderr),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}

func rootEntrypoint(_ *cobra.Command, _ []string) error {
	return errors.New("no sub-command provided")
}

type entrypointE func(ctx context.Context, cmd *cobra.Command, args []string) error
type runE func(cmd *cobra.Command, args []string) error

// wrapCancellationContext runs f with a context that is cancelled on SIGINT
// or SIGTERM and carries the command name as a log field.
func wrapCancellationContext(f entrypointE) runE {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
		defer stop()

		ctx = logging.WithFields(ctx, slog.String("cmd", cmd.Name()))
		return f(ctx, cmd, args)
	}
}

// bindFlags binds local flags to config keys when the command runs, so that
// several commands can share a key.
func bindFlags(keys map[string]string) runE {
	return func(cmd *cobra.Command, _ []string) error {
		for key, name := range keys {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		return nil
	}
}
