package predict

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/nao1215/phishcheck/internal/database"
	"github.com/nao1215/phishcheck/internal/feature"
	"github.com/nao1215/phishcheck/internal/model"
)

// Result is the normalized outcome of a prediction.
type Result struct {
	// URL is the input as given.
	URL string `json:"url"`

	// Label is the predicted class, e.g. "phishing" or "legitimate".
	Label string `json:"prediction_label"`

	// Score is the confidence in Label as a percentage in [0, 100].
	Score float64 `json:"prediction_score"`

	// Features is the vector the model scored.
	Features feature.Vector `json:"features"`
}

// Recorder persists successful predictions. *database.HistoryDB satisfies it.
type Recorder interface {
	Record(ctx context.Context, e *database.Entry) error
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Predictor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder records every successful prediction into r.
// Recording failures are logged and never returned to the caller.
func WithRecorder(r Recorder) Option {
	return func(p *Predictor) {
		p.recorder = r
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Predictor) {
		if now != nil {
			p.now = now
		}
	}
}

// Predictor scores URLs with a pre-loaded model. It is safe for concurrent use.
type Predictor struct {
	model    model.Model
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// New returns a Predictor for m. A nil m is accepted; Predict then fails
// with ErrModelUnavailable.
func New(m model.Model, opts ...Option) *Predictor {
	p := &Predictor{
		model:  m,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict extracts features from rawURL, scores them and returns the
// normalized result. Any string is accepted: unparseable input is scored
// through the malformed feature.
func (p *Predictor) Predict(ctx context.Context, rawURL string) (Result, error) {
	if p == nil || isNilModel(p.model) {
		return Result{}, ErrModelUnavailable
	}

	v := feature.Extract(rawURL)

	out, err := p.model.Predict(v)
	if err != nil {
		p.logger.Error("prediction failed", "url", rawURL, "error", err)
		return Result{}, err
	}

	res := Result{
		URL:      rawURL,
		Label:    out.Label,
		Score:    toPercent(out.Probability),
		Features: v,
	}

	p.logger.Debug("prediction",
		"url", rawURL,
		"label", res.Label,
		"score", res.Score,
		"malformed", v.Malformed,
	)

	p.record(ctx, res)
	return res, nil
}

func (p *Predictor) record(ctx context.Context, res Result) {
	if p.recorder == nil {
		return
	}
	// The caller's context may be cancelled as soon as the response is
	// written; the insert should still complete.
	ctx = context.WithoutCancel(ctx)

	entry := &database.Entry{
		URL:       res.URL,
		Label:     res.Label,
		Score:     res.Score,
		CheckedAt: p.now(),
	}
	if entry.URL == "" {
		return
	}
	if err := p.recorder.Record(ctx, entry); err != nil {
		p.logger.Warn("failed to record prediction", "url", res.URL, "error", err)
	}
}

// toPercent scales a probability to [0, 100]. NaN maps to 0.
func toPercent(prob float64) float64 {
	if math.IsNaN(prob) {
		return 0
	}
	return math.Max(0, math.Min(100, prob*100))
}

// isNilModel catches a typed nil stored in the interface, e.g. a nil
// *model.Logistic.
func isNilModel(m model.Model) bool {
	if m == nil {
		return true
	}
	if l, ok := m.(*model.Logistic); ok && l == nil {
		return true
	}
	return false
}
