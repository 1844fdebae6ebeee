// Package console renders the human-readable verification report.
//
// Markers are coloured with lipgloss only when the output is a terminal;
// otherwise every line is plain text so the report can be piped or diffed.
package console
