package evaluate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/phishcheck/internal/predict"
)

// DefaultConcurrency is the number of samples scored at once.
const DefaultConcurrency = 8

// Predictor scores a URL. *predict.Predictor satisfies it.
type Predictor interface {
	Predict(ctx context.Context, rawURL string) (predict.Result, error)
}

// Outcome is the prediction for one Sample.
type Outcome struct {
	Sample

	Label string  `json:"label"`
	Score float64 `json:"score"`

	// Flagged reports whether the predicted label is the positive one.
	Flagged bool `json:"flagged"`

	// Error is set when the sample could not be scored. Such outcomes are
	// excluded from the confusion matrix.
	Error string `json:"error,omitempty"`
}

// Correct reports whether the prediction matched the ground truth.
func (o Outcome) Correct() bool {
	return o.Error == "" && o.Flagged == o.Malicious
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithConcurrency sets the maximum number of samples scored at once.
// Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the logger for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Evaluator scores samples concurrently.
type Evaluator struct {
	predictor   Predictor
	positive    string
	concurrency int
	logger      *slog.Logger
}

// NewEvaluator returns an Evaluator that treats predictions labelled
// positive as flagged.
func NewEvaluator(p Predictor, positive string, opts ...Option) *Evaluator {
	e := &Evaluator{
		predictor:   p,
		positive:    positive,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores every sample and returns the outcomes in input order.
// A failed prediction is recorded in its Outcome and does not stop the run;
// cancelling ctx does, and Evaluate then returns ctx's error.
func (e *Evaluator) Evaluate(ctx context.Context, samples []Sample) ([]Outcome, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	e.logger.Info("starting evaluation",
		"samples", len(samples),
		"concurrency", e.concurrency,
	)
	start := time.Now()

	// Each goroutine writes only its own index.
	outcomes := make([]Outcome, len(samples))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, s := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			o := Outcome{Sample: s}
			res, err := e.predictor.Predict(ctx, s.URL)
			if err != nil {
				e.logger.Debug("sample failed", "url", s.URL, "error", err)
				o.Error = err.Error()
			} else {
				o.Label = res.Label
				o.Score = res.Score
				o.Flagged = res.Label == e.positive
			}
			outcomes[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Warn("evaluation cancelled", "error", err)
		return nil, err
	}

	e.logger.Info("evaluation complete",
		"samples", len(samples),
		"elapsed", time.Since(start),
	)
	return outcomes, nil
}
