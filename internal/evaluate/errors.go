package evaluate

import "errors"

var (
	// ErrNoSamples is returned when there is nothing to evaluate.
	ErrNoSamples = errors.New("no samples to evaluate")

	// ErrInvalidRatio is returned for a malicious ratio outside [0, 1].
	ErrInvalidRatio = errors.New("malicious ratio must be between 0 and 1")

	// ErrInvalidCount is returned for a negative sample count.
	ErrInvalidCount = errors.New("sample count must not be negative")
)
