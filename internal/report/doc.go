// Package report renders validation reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for the terminal, optionally coloured
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown for pull requests and documentation
//
// Report data structures live in the model package; writers only format
// them. Writers implement the Writer interface, so they can be used
// interchangeably and composed with MultiWriter.
package report
