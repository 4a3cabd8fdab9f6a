package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/phishcheck/internal/evaluate"
	"github.com/nao1215/phishcheck/internal/predict"
)

// JSONWriter outputs results as JSON.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string

	// version is stamped into every document when non-empty.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is shorthand for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the phishcheck version in the output document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Document is the top-level JSON object written by JSONWriter. Exactly one
// of Evaluation and Predictions is set.
type Document struct {
	Version     string           `json:"version,omitempty"`
	Evaluation  *evaluate.Report `json:"evaluation,omitempty"`
	Predictions []predict.Result `json:"predictions,omitempty"`
}

// WriteEvaluation outputs the report as JSON.
func (w *JSONWriter) WriteEvaluation(report *evaluate.Report) (int, error) {
	return w.writeJSON(Document{Version: w.version, Evaluation: report})
}

// WritePredictions outputs the results as JSON. An empty slice is written
// as an empty array.
func (w *JSONWriter) WritePredictions(results []predict.Result) (int, error) {
	doc := struct {
		Version     string           `json:"version,omitempty"`
		Predictions []predict.Result `json:"predictions"`
	}{Version: w.version, Predictions: results}
	if doc.Predictions == nil {
		doc.Predictions = []predict.Result{}
	}
	return w.writeJSON(doc)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
