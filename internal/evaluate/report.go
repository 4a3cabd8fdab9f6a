package evaluate

import "time"

// ConfusionMatrix counts predictions against ground truth, with malicious
// as the positive class.
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// Total is the number of scored samples.
func (m ConfusionMatrix) Total() int {
	return m.TruePositives + m.FalsePositives + m.TrueNegatives + m.FalseNegatives
}

// Metrics are percentages in [0, 100]. A metric whose denominator is zero
// is reported as 0.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Report summarizes an evaluation run.
type Report struct {
	ModelName    string    `json:"model_name,omitempty"`
	ModelVersion string    `json:"model_version,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`

	Total     int `json:"total"`
	Malicious int `json:"malicious"`
	Genuine   int `json:"genuine"`
	Failed    int `json:"failed"`

	Matrix  ConfusionMatrix `json:"confusion_matrix"`
	Metrics Metrics         `json:"metrics"`

	// Outcomes holds per-sample details when requested.
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

// NewReport builds a Report from outcomes. Failed outcomes count toward
// Total, Malicious and Genuine but not the matrix.
func NewReport(outcomes []Outcome) *Report {
	r := &Report{
		GeneratedAt: time.Now(),
		Total:       len(outcomes),
	}

	for _, o := range outcomes {
		if o.Malicious {
			r.Malicious++
		} else {
			r.Genuine++
		}

		if o.Error != "" {
			r.Failed++
			continue
		}

		switch {
		case o.Malicious && o.Flagged:
			r.Matrix.TruePositives++
		case !o.Malicious && o.Flagged:
			r.Matrix.FalsePositives++
		case !o.Malicious && !o.Flagged:
			r.Matrix.TrueNegatives++
		default:
			r.Matrix.FalseNegatives++
		}
	}

	r.Metrics = computeMetrics(r.Matrix)
	return r
}

func computeMetrics(m ConfusionMatrix) Metrics {
	tp := float64(m.TruePositives)

	precision := ratio(tp, tp+float64(m.FalsePositives))
	recall := ratio(tp, tp+float64(m.FalseNegatives))

	return Metrics{
		Accuracy:  100 * ratio(tp+float64(m.TrueNegatives), float64(m.Total())),
		Precision: 100 * precision,
		Recall:    100 * recall,
		F1:        100 * ratio(2*precision*recall, precision+recall),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
