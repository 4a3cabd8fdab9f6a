package predict

import "github.com/nao1215/phishcheck/internal/model"

// Prediction errors. They alias the model errors so callers only need to
// import this package to tell failure kinds apart with errors.Is.
var (
	// ErrModelUnavailable is returned when the Predictor has no model.
	ErrModelUnavailable = model.ErrModelUnavailable

	// ErrFeature is returned when the model rejects the feature vector.
	ErrFeature = model.ErrFeature
)
