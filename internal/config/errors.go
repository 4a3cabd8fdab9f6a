package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyListenAddr is returned when the HTTP listen address is empty.
	ErrEmptyListenAddr = errors.New("invalid listen address: must not be empty")

	// ErrInvalidTimeout is returned when a server timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the request body limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidHistoryLimit is returned when history is enabled with a
	// non-positive retention.
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be positive")

	// ErrNoHistoryDir is returned when history is enabled without a directory.
	ErrNoHistoryDir = errors.New("history is enabled but no history directory is set")

	// ErrInvalidLogLevel is returned for a log level other than debug, info,
	// warn or error.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidEnv is returned when an environment variable cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
