package report

import (
	"io"

	"github.com/nao1215/phishcheck/internal/evaluate"
	"github.com/nao1215/phishcheck/internal/predict"
)

// Writer renders phishcheck results.
type Writer interface {
	// WriteEvaluation outputs an evaluation report.
	// Returns the number of bytes written and any error encountered.
	WriteEvaluation(report *evaluate.Report) (int, error)

	// WritePredictions outputs the results of scoring individual URLs.
	WritePredictions(results []predict.Result) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteEvaluation outputs the report to all Writers. It stops on the first
// error and returns the total bytes written so far.
func (m *MultiWriter) WriteEvaluation(report *evaluate.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteEvaluation(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WritePredictions outputs the results to all Writers.
func (m *MultiWriter) WritePredictions(results []predict.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WritePredictions(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
