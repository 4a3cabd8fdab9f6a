package model

import "errors"

// Model errors.
// Callers distinguish a missing or unloadable model from bad input with errors.Is.
var (
	// ErrModelUnavailable is returned when no model is loaded or the artifact
	// cannot be read.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidArtifact is returned when an artifact is readable but its
	// content is not a usable model (unknown features, bad threshold, ...).
	ErrInvalidArtifact = errors.New("invalid model artifact")

	// ErrFeature is returned when a feature vector contains values the model
	// cannot score, such as NaN or infinity.
	ErrFeature = errors.New("invalid feature vector")
)
