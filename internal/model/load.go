package model

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed default.yaml
var defaultArtifact []byte

// DefaultArtifact returns a copy of the embedded artifact bytes.
func DefaultArtifact() []byte {
	out := make([]byte, len(defaultArtifact))
	copy(out, defaultArtifact)
	return out
}

// Default returns the model built from the embedded artifact.
func Default() (*Logistic, error) {
	a, err := ParseArtifact(defaultArtifact)
	if err != nil {
		return nil, fmt.Errorf("embedded artifact: %w", err)
	}
	return NewLogistic(a)
}

// Load returns the model stored at path, or the embedded default when path
// is empty. It is meant to be called once at process start.
func Load(path string) (*Logistic, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads and parses an artifact file.
// A missing or unreadable file yields ErrModelUnavailable.
func LoadFile(path string) (*Logistic, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied model path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	a, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewLogistic(a)
}
