package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/phishcheck/internal/log"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "phishcheck"

	// DefaultListenAddr is the port existing API clients expect.
	DefaultListenAddr = ":5000"

	// DefaultHistoryLimit is how many recent checks are retained.
	DefaultHistoryLimit = 10

	// DefaultMaxBodySize limits request bodies. A URL submission is tiny;
	// 64KB leaves room for long query strings.
	DefaultMaxBodySize = 64 * 1024

	// DefaultReadTimeout bounds reading a request including its body.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds writing a response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultShutdownTimeout is how long in-flight requests get on shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds all configuration options for phishcheck.
// It is populated by the CLI and passed down explicitly.
type Config struct {
	// ListenAddr is the HTTP listen address in "host:port" form.
	ListenAddr string

	// ModelPath is a YAML model artifact. Empty selects the embedded model.
	ModelPath string

	// HistoryEnabled turns on the SQLite record of recent checks.
	HistoryEnabled bool

	// HistoryDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	HistoryDir string

	// HistoryLimit is the number of entries kept; older entries are trimmed.
	HistoryLimit int

	// MaxBodySize is the maximum request body size in bytes.
	MaxBodySize int64

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// AllowedOrigins lists CORS origins. "*" allows any origin.
	AllowedOrigins []string

	// Verbose forces debug logging.
	Verbose bool

	// LogJSON selects JSON log output.
	LogJSON bool

	// LogLevel is one of debug, info, warn, error. Empty lets the command
	// pick its own default.
	LogLevel string

	// ConfigFilePath is an explicit configuration file. When empty,
	// FindConfigFile searches the working and home directories.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		ListenAddr:      DefaultListenAddr,
		HistoryEnabled:  true,
		HistoryDir:      XDGDataDir(),
		HistoryLimit:    DefaultHistoryLimit,
		MaxBodySize:     DefaultMaxBodySize,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		AllowedOrigins:  []string{"*"},
	}
}

// XDGDataDir returns the XDG data directory for phishcheck.
// On Linux: ~/.local/share/phishcheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for phishcheck.
// On Linux: ~/.config/phishcheck
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrEmptyListenAddr
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.HistoryEnabled {
		if c.HistoryLimit <= 0 {
			return ErrInvalidHistoryLimit
		}
		if c.HistoryDir == "" {
			return ErrNoHistoryDir
		}
	}
	if _, err := log.ParseLevel(c.LogLevel, slog.LevelWarn); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// Level resolves the log level. Verbose wins over LogLevel, and def is used
// when neither is set.
func (c *Config) Level(def slog.Level) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	l, err := log.ParseLevel(c.LogLevel, def)
	if err != nil {
		return def
	}
	return l
}
