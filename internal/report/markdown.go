package report

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/phishcheck/internal/evaluate"
	"github.com/nao1215/phishcheck/internal/predict"
)

// MarkdownWriter outputs results as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteEvaluation outputs the report in Markdown format.
func (w *MarkdownWriter) WriteEvaluation(report *evaluate.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("phishcheck Evaluation")
	md.PlainText("")

	rows := [][]string{
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Samples", strconv.Itoa(report.Total)},
		{"Malicious", strconv.Itoa(report.Malicious)},
		{"Genuine", strconv.Itoa(report.Genuine)},
	}
	if report.ModelName != "" {
		rows = append([][]string{{"Model", "`" + report.ModelName + " " + report.ModelVersion + "`"}}, rows...)
	}
	if report.Failed > 0 {
		rows = append(rows, []string{"Failed", strconv.Itoa(report.Failed)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeMetrics(md, report)
	w.writeMatrix(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeMetrics(md *markdown.Markdown, report *evaluate.Report) {
	md.H2("Metrics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Accuracy", percent(report.Metrics.Accuracy)},
			{"Precision", percent(report.Metrics.Precision)},
			{"Recall", percent(report.Metrics.Recall)},
			{"F1 score", percent(report.Metrics.F1)},
		},
	})
	md.PlainText("")

	switch {
	case report.Matrix.Total() == 0:
		md.Cautionf("No samples were scored.")
	case report.Matrix.FalseNegatives > 0:
		md.Warningf("%d malicious URL(s) were classified as legitimate.", report.Matrix.FalseNegatives)
	case report.Matrix.FalsePositives > 0:
		md.Note(strconv.Itoa(report.Matrix.FalsePositives) + " genuine URL(s) were flagged.")
	default:
		md.Tip("Every sample was classified correctly.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeMatrix(md *markdown.Markdown, report *evaluate.Report) {
	m := report.Matrix

	md.H2("Confusion Matrix")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Flagged", "Not flagged"},
		Rows: [][]string{
			{"**Malicious**", strconv.Itoa(m.TruePositives), strconv.Itoa(m.FalseNegatives)},
			{"**Genuine**", strconv.Itoa(m.FalsePositives), strconv.Itoa(m.TrueNegatives)},
		},
	})
	md.PlainText("")

	if m.Total() == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Prediction Outcomes"),
		piechart.WithShowData(true),
	)
	for _, slice := range []struct {
		label string
		n     int
	}{
		{"True positives", m.TruePositives},
		{"False positives", m.FalsePositives},
		{"True negatives", m.TrueNegatives},
		{"False negatives", m.FalseNegatives},
	} {
		if slice.n > 0 {
			chart.LabelAndIntValue(slice.label, uint64(slice.n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WritePredictions outputs the results as a single table.
func (w *MarkdownWriter) WritePredictions(results []predict.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("phishcheck Results")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No URLs were checked.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			"`" + truncateString(r.URL, 80) + "`",
			r.Label,
			percent(r.Score),
			yesNo(r.Features.HasHTTPS),
			yesNo(r.Features.HasIP),
			strconv.Itoa(r.Features.SuspiciousKeywords),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Prediction", "Score", "HTTPS", "IP host", "Keywords"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [phishcheck](https://github.com/nao1215/phishcheck)*")
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
