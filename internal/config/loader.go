package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".phishcheck"

// File is the YAML layout of a configuration file.
// Zero values mean "not set" and leave the current value untouched.
type File struct {
	Server  ServerFile  `yaml:"server"`
	Model   ModelFile   `yaml:"model"`
	History HistoryFile `yaml:"history"`
	Log     LogFile     `yaml:"log"`
}

// ServerFile is the server section.
type ServerFile struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	MaxBodySize     int64         `yaml:"max_body_size"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelFile is the model section.
type ModelFile struct {
	Path string `yaml:"path"`
}

// HistoryFile is the history section. Enabled is a pointer so that an
// explicit "false" can be told apart from an omitted key.
type HistoryFile struct {
	Enabled *bool  `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Limit   int    `yaml:"limit"`
}

// LogFile is the log section.
type LogFile struct {
	Level string `yaml:"level"`
	JSON  *bool  `yaml:"json"`
}

// LoadConfigFile parses the YAML file at path.
// If the file does not exist, it returns ErrConfigNotFound.
// Unknown keys are rejected.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .phishcheck in the current directory
// 3. Look for .phishcheck in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// ApplyFile overlays the values set in f onto c.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	s := f.Server
	if s.Addr != "" {
		c.ListenAddr = s.Addr
	}
	if len(s.AllowedOrigins) > 0 {
		c.AllowedOrigins = append([]string(nil), s.AllowedOrigins...)
	}
	if s.MaxBodySize != 0 {
		c.MaxBodySize = s.MaxBodySize
	}
	if s.ReadTimeout != 0 {
		c.ReadTimeout = s.ReadTimeout
	}
	if s.WriteTimeout != 0 {
		c.WriteTimeout = s.WriteTimeout
	}
	if s.ShutdownTimeout != 0 {
		c.ShutdownTimeout = s.ShutdownTimeout
	}

	if f.Model.Path != "" {
		c.ModelPath = f.Model.Path
	}

	if f.History.Enabled != nil {
		c.HistoryEnabled = *f.History.Enabled
	}
	if f.History.Dir != "" {
		c.HistoryDir = f.History.Dir
	}
	if f.History.Limit != 0 {
		c.HistoryLimit = f.History.Limit
	}

	if f.Log.Level != "" {
		c.LogLevel = f.Log.Level
	}
	if f.Log.JSON != nil {
		c.LogJSON = *f.Log.JSON
	}
}

// Load builds a Config from defaults, the configuration file and the
// environment. An explicitly named file that does not exist is an error;
// a missing default file is not.
func Load(configPath string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := NewConfig()
	cfg.ConfigFilePath = configPath

	path := FindConfigFile(configPath)
	if path == "" && configPath != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}
	if path != "" {
		f, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg.ApplyFile(f)
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}
