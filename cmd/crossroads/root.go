package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads"
	"github.com/aretw0/crossroads/internal/cli"
	"github.com/aretw0/crossroads/internal/config"
	"github.com/aretw0/crossroads/pkg/grammar"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "crossroads",
	Short: "Crossroads turns agent decision points into answerable dialogs",
	Long: `Crossroads parses the "Decision points" block an agent writes in plan mode,
lets an operator answer it in a tabbed dialog and encodes the reply the agent expects.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path, os.LookupEnv)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dialect") {
			loaded.Dialect, _ = cmd.Flags().GetString("dialect")
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logger, err = cli.CreateLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", fmt.Sprintf("Config file (default ./%s when present)", config.DefaultFile))
	rootCmd.PersistentFlags().String("dialect", grammar.Strict.Name, "Decision-point dialect: strict or lenient")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

// newEngine builds an engine for the configured dialect, or for override when it names one.
func newEngine(override string) (*crossroads.Engine, error) {
	dialect := cfg.DialectValue()
	if override != "" {
		d, err := grammar.ParseDialect(override)
		if err != nil {
			return nil, err
		}
		dialect = d
	}
	return crossroads.New(
		crossroads.WithDialect(dialect),
		crossroads.WithLogger(logger),
		crossroads.WithLifecycleHooks(cli.CreateDebugHooks(logger)),
	), nil
}
