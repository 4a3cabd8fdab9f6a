package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/phishcheck/internal/feature"
)

// Labels names the two classes produced by a binary classifier.
type Labels struct {
	// Positive is reported when the phishing probability reaches the threshold.
	Positive string `yaml:"positive"`

	// Negative is reported otherwise.
	Negative string `yaml:"negative"`
}

// Artifact is the serialized form of a logistic URL classifier.
type Artifact struct {
	// Name identifies the model in logs and reports.
	Name string `yaml:"name"`

	// Version is the training run the artifact was exported from.
	Version string `yaml:"version"`

	Labels Labels `yaml:"labels"`

	// Threshold is the phishing probability at or above which the positive
	// label is predicted. Must be in (0, 1).
	Threshold float64 `yaml:"threshold"`

	Bias float64 `yaml:"bias"`

	// Weights maps numeric feature names (see feature.Names) to coefficients.
	// Features without a weight contribute nothing.
	Weights map[string]float64 `yaml:"weights"`

	// TLDRisk adds a per-TLD offset to the logit.
	TLDRisk map[string]float64 `yaml:"tld_risk"`

	// DefaultTLDRisk is used for TLDs missing from TLDRisk, including the
	// empty TLD of IP hosts and malformed URLs.
	DefaultTLDRisk float64 `yaml:"default_tld_risk"`
}

// ParseArtifact decodes and validates a YAML artifact.
// Unknown top-level keys are rejected so that typos do not silently
// produce a different model.
func ParseArtifact(data []byte) (*Artifact, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var a Artifact
	if err := dec.Decode(&a); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidArtifact)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks that the artifact describes a usable model.
func (a *Artifact) Validate() error {
	if strings.TrimSpace(a.Labels.Positive) == "" || strings.TrimSpace(a.Labels.Negative) == "" {
		return fmt.Errorf("%w: both labels must be set", ErrInvalidArtifact)
	}
	if a.Labels.Positive == a.Labels.Negative {
		return fmt.Errorf("%w: labels must differ", ErrInvalidArtifact)
	}
	if !(a.Threshold > 0 && a.Threshold < 1) {
		return fmt.Errorf("%w: threshold %v must be in (0, 1)", ErrInvalidArtifact, a.Threshold)
	}
	if !finite(a.Bias) || !finite(a.DefaultTLDRisk) {
		return fmt.Errorf("%w: bias and default_tld_risk must be finite", ErrInvalidArtifact)
	}
	for name, w := range a.Weights {
		if !feature.IsKnown(name) {
			return fmt.Errorf("%w: unknown feature %q", ErrInvalidArtifact, name)
		}
		if !finite(w) {
			return fmt.Errorf("%w: weight for %q is not finite", ErrInvalidArtifact, name)
		}
	}
	for tld, r := range a.TLDRisk {
		if !finite(r) {
			return fmt.Errorf("%w: tld risk for %q is not finite", ErrInvalidArtifact, tld)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
