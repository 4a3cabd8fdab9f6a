// Package report renders evaluation reports and prediction results.
//
// Three formats are available:
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown with a mermaid chart of the confusion matrix
//
// Writers implement the Writer interface and can be combined with
// MultiWriter.
package report
