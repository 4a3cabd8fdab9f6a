package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishcheck/internal/config"
	"github.com/nao1215/phishcheck/internal/database"
	"github.com/nao1215/phishcheck/internal/model"
	"github.com/nao1215/phishcheck/internal/predict"
	"github.com/nao1215/phishcheck/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and JSON API",
		Long: `Serve starts the HTTP server.

Routes:
  GET  /             URL submission form
  POST /             form submission (field "url")
  POST /analyze-url  JSON API: {"url": "..."} -> {"prediction_label", "prediction_score"}
  GET  /history      recent checks (when history is enabled)
  DELETE /history    clear recent checks
  GET  /healthz      liveness and model identity

Examples:
  # Listen on the default address (:5000)
  phishcheck serve

  # Listen on another port with a custom model
  phishcheck serve -a :8080 --model ./model.yaml

  # Disable the history store
  phishcheck serve --no-history

Environment:
  PHISHCHECK_ADDR, PORT, PHISHCHECK_MODEL, PHISHCHECK_HISTORY_DIR,
  PHISHCHECK_HISTORY_LIMIT and PHISHCHECK_LOG_LEVEL override the
  configuration file. A .env file in the working directory is loaded first.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddr, "Listen address")
	cmd.Flags().String("model", "", "Model artifact (YAML); empty uses the embedded model")
	cmd.Flags().Bool("no-history", false, "Do not record checks")
	cmd.Flags().String("history-dir", "", "Directory for the history database (default: XDG data directory)")
	cmd.Flags().Int("history-limit", config.DefaultHistoryLimit, "Number of recent checks kept")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg, slog.LevelInfo)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, logger)
}

// applyServeFlags overrides cfg with flags the user set explicitly.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("addr") {
		if cfg.ListenAddr, err = flags.GetString("addr"); err != nil {
			return err
		}
	}
	if flags.Changed("model") {
		if cfg.ModelPath, err = flags.GetString("model"); err != nil {
			return err
		}
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return err
		}
		cfg.HistoryEnabled = !noHistory
	}
	if flags.Changed("history-dir") {
		if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("history-limit") {
		if cfg.HistoryLimit, err = flags.GetInt("history-limit"); err != nil {
			return err
		}
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	logger.Info("model loaded", "name", m.Name(), "version", m.Version())

	predictOpts := []predict.Option{predict.WithLogger(logger)}
	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithAllowedOrigins(cfg.AllowedOrigins...),
		server.WithMaxBodySize(cfg.MaxBodySize),
		server.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout, cfg.ShutdownTimeout),
		server.WithModelInfo(server.ModelInfo{Name: m.Name(), Version: m.Version()}),
	}

	if cfg.HistoryEnabled {
		opts := database.DefaultOptions()
		opts.Limit = cfg.HistoryLimit

		db, err := database.Open(cfg.HistoryDir, opts)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history enabled", "path", db.Path(), "limit", db.Limit())

		predictOpts = append(predictOpts, predict.WithRecorder(db))
		serverOpts = append(serverOpts, server.WithHistory(db, cfg.HistoryLimit))
	}

	p := predict.New(m, predictOpts...)
	return server.New(p, serverOpts...).ListenAndServe(ctx, cfg.ListenAddr)
}
