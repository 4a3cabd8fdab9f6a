package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvAddr         = "PHISHCHECK_ADDR"
	EnvPort         = "PORT"
	EnvModel        = "PHISHCHECK_MODEL"
	EnvHistoryDir   = "PHISHCHECK_HISTORY_DIR"
	EnvHistoryLimit = "PHISHCHECK_HISTORY_LIMIT"
	EnvLogLevel     = "PHISHCHECK_LOG_LEVEL"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none are
// given) into the process environment. Variables that are already set are
// kept. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables onto c. lookup is usually
// os.LookupEnv; nil means os.LookupEnv.
// PORT is honored for platforms that assign one, but PHISHCHECK_ADDR wins.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAddr); ok {
		c.ListenAddr = v
	} else if v, ok := get(EnvPort); ok {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvPort, v)
		}
		c.ListenAddr = ":" + v
	}

	if v, ok := get(EnvModel); ok {
		c.ModelPath = v
	}
	if v, ok := get(EnvHistoryDir); ok {
		c.HistoryDir = v
	}
	if v, ok := get(EnvHistoryLimit); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvHistoryLimit, v)
		}
		c.HistoryLimit = n
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
	return nil
}
