package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/nao1215/phishcheck/internal/feature"
)

// Output is the raw result of scoring one feature vector.
type Output struct {
	// Label is the predicted class.
	Label string

	// Probability is the model probability of Label, in [0, 1].
	Probability float64
}

// Model scores feature vectors. Implementations must be safe for concurrent
// use once constructed.
type Model interface {
	Predict(v feature.Vector) (Output, error)
}

// Logistic is a logistic-regression classifier built from an Artifact.
type Logistic struct {
	name      string
	version   string
	labels    Labels
	threshold float64
	bias      float64

	// weights is aligned with feature.Names.
	weights []float64

	tldRisk        map[string]float64
	defaultTLDRisk float64
}

var _ Model = (*Logistic)(nil)

// NewLogistic builds a model from a validated artifact.
func NewLogistic(a *Artifact) (*Logistic, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil artifact", ErrModelUnavailable)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	names := feature.Names()
	weights := make([]float64, len(names))
	for i, name := range names {
		weights[i] = a.Weights[name]
	}

	tldRisk := make(map[string]float64, len(a.TLDRisk))
	for tld, r := range a.TLDRisk {
		tldRisk[strings.ToLower(strings.TrimPrefix(tld, "."))] = r
	}

	return &Logistic{
		name:           a.Name,
		version:        a.Version,
		labels:         a.Labels,
		threshold:      a.Threshold,
		bias:           a.Bias,
		weights:        weights,
		tldRisk:        tldRisk,
		defaultTLDRisk: a.DefaultTLDRisk,
	}, nil
}

// Name returns the artifact name.
func (m *Logistic) Name() string { return m.name }

// Version returns the artifact version.
func (m *Logistic) Version() string { return m.version }

// Labels returns the class names.
func (m *Logistic) Labels() Labels { return m.labels }

// Predict scores v. The returned probability is that of the returned label,
// so it is never below 1 - threshold for the negative class or below
// threshold for the positive class.
func (m *Logistic) Predict(v feature.Vector) (Output, error) {
	if m == nil {
		return Output{}, ErrModelUnavailable
	}

	p, err := m.PhishingProbability(v)
	if err != nil {
		return Output{}, err
	}

	if p >= m.threshold {
		return Output{Label: m.labels.Positive, Probability: p}, nil
	}
	return Output{Label: m.labels.Negative, Probability: 1 - p}, nil
}

// PhishingProbability returns the probability of the positive class.
func (m *Logistic) PhishingProbability(v feature.Vector) (float64, error) {
	if m == nil {
		return 0, ErrModelUnavailable
	}

	z := m.bias
	names := feature.Names()
	for i, x := range v.Values() {
		if !finite(x) {
			return 0, fmt.Errorf("%w: %s is %v", ErrFeature, names[i], x)
		}
		z += m.weights[i] * x
	}

	if r, ok := m.tldRisk[strings.ToLower(v.TLD)]; ok {
		z += r
	} else {
		z += m.defaultTLDRisk
	}

	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
