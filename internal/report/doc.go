// Package report renders run outcomes and agent status.
//
// Writers implement the Writer interface so terminal text, JSON for
// tooling, and Markdown for sharing are interchangeable:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured output for tool integration
//   - MarkdownWriter: shareable status and run summaries
//
// Report data lives in the model package; this package only formats it.
package report
