// Package cli wires configuration, logging and the kitchen into cobra commands.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shortorder/internal/config"
	"shortorder/internal/logger"
)

var (
	// Global flags
	configPath string
	logLevel   string
	prettyLogs bool
)

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

var current = &app{log: zerolog.Nop()}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shortorder",
		Short: "Short-order kitchen simulation",
		Long: `shortorder generates a day of customer orders, hands them out to order
stations on a timer and checks every served order against its recipe.

Examples:
  shortorder serve --config configs/config.yaml
  shortorder generate --orders 5 --seed 42
  shortorder catalog check --path catalog.yaml
  shortorder catalog import --path ./xml --format xml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			out := cmd.ErrOrStderr()
			if prettyLogs {
				out = logger.Console(out)
			}
			log, err := logger.New(cfg.LogLevel, out)
			if err != nil {
				return err
			}

			current.cfg = cfg
			current.log = log
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", false,
		"Human-readable log output")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewCatalogCommand())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
