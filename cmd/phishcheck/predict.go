package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishcheck/internal/config"
	"github.com/nao1215/phishcheck/internal/database"
	"github.com/nao1215/phishcheck/internal/model"
	"github.com/nao1215/phishcheck/internal/predict"
)

// NewPredictCmd creates the predict command.
func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [url]...",
		Short: "Score URLs from the command line",
		Long: `Predict scores each URL and prints its label and confidence.

URLs are read from the arguments. When the only argument is "-", one URL
per line is read from standard input; blank lines and lines starting with
"#" are skipped.

Examples:
  # Check a single URL
  phishcheck predict https://example.com

  # Check a list and emit JSON
  phishcheck predict --json - < urls.txt

  # Record the results in the history database
  phishcheck predict --record http://192.168.0.1/login`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPredictCmd,
	}

	cmd.Flags().String("model", "", "Model artifact (YAML); empty uses the embedded model")
	cmd.Flags().Bool("record", false, "Record results in the history database")
	cmd.Flags().String("history-dir", "", "Directory for the history database (default: XDG data directory)")
	addReportFlags(cmd)

	return cmd
}

func runPredictCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("model") {
		cfg.ModelPath = stringFlag(cmd, "model")
	}
	if cmd.Flags().Changed("history-dir") {
		cfg.HistoryDir = stringFlag(cmd, "history-dir")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg, slog.LevelWarn)

	urls := args
	if len(args) == 1 && args[0] == "-" {
		if urls, err = readURLs(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	results, err := runPredict(cmd.Context(), cfg, urls, boolFlag(cmd, "record"), logger)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if _, err := newReportWriter(cmd, out).WritePredictions(results); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to write results: %w", err)
	}
	return closeOut()
}

func runPredict(ctx context.Context, cfg *config.Config, urls []string, record bool, logger *slog.Logger) ([]predict.Result, error) {
	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	opts := []predict.Option{predict.WithLogger(logger)}
	if record {
		dbOpts := database.DefaultOptions()
		dbOpts.Limit = cfg.HistoryLimit

		db, err := database.Open(cfg.HistoryDir, dbOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		opts = append(opts, predict.WithRecorder(db))
	}

	p := predict.New(m, opts...)
	results := make([]predict.Result, 0, len(urls))
	for _, u := range urls {
		res, err := p.Predict(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("failed to score %q: %w", u, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// readURLs reads one URL per line, skipping blanks and # comments.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URLs: %w", err)
	}
	if len(urls) == 0 {
		return nil, errors.New("no URLs provided on standard input")
	}
	return urls, nil
}
