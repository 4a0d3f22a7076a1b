// Package cli wires the lpbridge commands: solve a model file, list
// backends, or run the HTTP solve service.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lpbridge/internal/config"
	"lpbridge/internal/httpapi"
	"lpbridge/internal/solver"
)

// cfg holds file-based defaults, merged under flags and environment.
var cfg config.Config

// logger is the command-level logger, configured in PersistentPreRunE.
var logger = zerolog.Nop()

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "lpbridge",
		Short:         "Solve backend-agnostic linear/constraint models with interchangeable engines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (yaml/json/toml)")
	root.PersistentFlags().String("log-level", "", "log level: debug|info|warn|error (default info)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix("LPBRIDGE")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if cfgPath != "" {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		}
		level := viper.GetString("log-level")
		if level == "" {
			level = cfg.LogLevel
		}
		installLogger(level)
		return nil
	}

	root.AddCommand(newSolveCmd(), newBackendsCmd(), newServeCmd())
	return root
}

func installLogger(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
	logger = l
	solver.SetLogger(l)
	httpapi.SetLogger(l)
}
