package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/phishcheck/internal/evaluate"
	"github.com/nao1215/phishcheck/internal/predict"
)

// maxListedMisses caps the misclassified samples printed in verbose mode.
const maxListedMisses = 20

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds feature details to predictions and lists misclassified
	// samples in evaluations.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteEvaluation outputs the report in human-readable format.
func (w *SimpleWriter) WriteEvaluation(report *evaluate.Report) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "PHISHCHECK EVALUATION")

	if report.ModelName != "" {
		fmt.Fprintf(&sb, "Model:          %s %s\n", report.ModelName, report.ModelVersion)
	}
	fmt.Fprintf(&sb, "Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Samples:        %d (%d malicious, %d genuine)\n", report.Total, report.Malicious, report.Genuine)
	if report.Failed > 0 {
		fmt.Fprintf(&sb, "Failed:         %d\n", report.Failed)
	}
	sb.WriteString("\n")

	sb.WriteString("CONFUSION MATRIX\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  True positives:   %6d\n", report.Matrix.TruePositives)
	fmt.Fprintf(&sb, "  False positives:  %6d\n", report.Matrix.FalsePositives)
	fmt.Fprintf(&sb, "  True negatives:   %6d\n", report.Matrix.TrueNegatives)
	fmt.Fprintf(&sb, "  False negatives:  %6d\n", report.Matrix.FalseNegatives)
	sb.WriteString("\n")

	sb.WriteString("METRICS\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Accuracy:   %6.2f%%\n", report.Metrics.Accuracy)
	fmt.Fprintf(&sb, "  Precision:  %6.2f%%\n", report.Metrics.Precision)
	fmt.Fprintf(&sb, "  Recall:     %6.2f%%\n", report.Metrics.Recall)
	fmt.Fprintf(&sb, "  F1 score:   %6.2f%%\n", report.Metrics.F1)

	if w.verbose {
		w.writeMisses(&sb, report.Outcomes)
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeMisses(sb *strings.Builder, outcomes []evaluate.Outcome) {
	var misses []evaluate.Outcome
	for _, o := range outcomes {
		if !o.Correct() {
			misses = append(misses, o)
		}
	}
	if len(misses) == 0 {
		return
	}

	fmt.Fprintf(sb, "\nMISCLASSIFIED (%d)\n", len(misses))
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	for i, o := range misses {
		if i == maxListedMisses {
			fmt.Fprintf(sb, "  ... and %d more\n", len(misses)-maxListedMisses)
			break
		}
		if o.Error != "" {
			fmt.Fprintf(sb, "  %s  error: %s\n", o.URL, o.Error)
			continue
		}
		fmt.Fprintf(sb, "  %s  predicted %s (%.2f%%), expected %s\n", o.URL, o.Label, o.Score, expected(o))
	}
}

// WritePredictions outputs one block per URL.
func (w *SimpleWriter) WritePredictions(results []predict.Result) (int, error) {
	var sb strings.Builder

	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "URL:        %s\n", r.URL)
		fmt.Fprintf(&sb, "Prediction: %s\n", r.Label)
		fmt.Fprintf(&sb, "Score:      %.2f%%\n", r.Score)

		if w.verbose {
			f := r.Features
			sb.WriteString("Features:\n")
			fmt.Fprintf(&sb, "  length=%d https=%t dots=%d hyphens=%d ip=%t\n", f.Length, f.HasHTTPS, f.NumDots, f.NumHyphens, f.HasIP)
			fmt.Fprintf(&sb, "  tld=%q keywords=%d entropy=%.3f path_depth=%d port=%t\n", f.TLD, f.SuspiciousKeywords, f.Entropy, f.PathDepth, f.HasPort)
			fmt.Fprintf(&sb, "  special=%d at=%t idn=%t subdomains=%d malformed=%t\n", f.SpecialChars, f.HasAtSymbol, f.IsIDN, f.SubdomainCount, f.Malformed)
		}
	}

	return io.WriteString(w.output, sb.String())
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	pad := max(0, (70-len(title))/2)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

func expected(o evaluate.Outcome) string {
	if o.Malicious {
		return "malicious"
	}
	return "genuine"
}
