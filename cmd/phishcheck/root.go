package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishcheck/internal/config"
	"github.com/nao1215/phishcheck/internal/log"
)

// NewRootCmd creates the root command for phishcheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishcheck",
		Short: "Phishing URL detector",
		Long: `phishcheck scores URLs for phishing risk using lexical features such as
length, HTTPS usage, IP hosts, suspicious keywords and top-level domain risk.

Run "phishcheck serve" for the web form and JSON API, "phishcheck predict"
to check URLs from the terminal, or "phishcheck evaluate" to measure the
model on synthetic data.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .phishcheck in current or home directory)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPredictCmd())
	cmd.AddCommand(NewEvaluateCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from the config file, .env and the
// environment, then applies the global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(stringFlag(cmd, "config"), os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if boolFlag(cmd, "verbose") {
		cfg.Verbose = true
	}
	if boolFlag(cmd, "log-json") {
		cfg.LogJSON = true
	}
	if lvl := stringFlag(cmd, "log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// newLogger creates the command logger. def is the level used when neither
// --verbose nor a log level is configured.
func newLogger(w io.Writer, cfg *config.Config, def slog.Level) *slog.Logger {
	return log.New(w, log.Options{Level: cfg.Level(def), JSON: cfg.LogJSON})
}

// boolFlag reads a local or inherited flag, returning false when the flag
// is not defined on cmd.
func boolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

func stringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return v
}
