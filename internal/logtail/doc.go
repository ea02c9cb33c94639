// Package logtail reads and formats reviewdeck's own log file.
//
// # Reading
//
// Read returns the last N lines of a file in one pass using a ring buffer of
// N entries, so memory stays O(N) however large the file grows. N <= 0 reads
// the whole file. A missing file yields nil, nil.
//
// # Parsing
//
// ParseLine understands the logger's text format:
//
//	2026-01-02T15:04:05Z INFO ops: operation started kind=ingest app=com.a
//
// Both full level names and the four-letter forms (DEBU, ERRO) are accepted.
// Anything else is returned unparsed with LevelUnknown; Filter keeps such lines
// so multi-line entries are not split.
//
// # Colorization
//
// Palette renders parsed lines with lipgloss styles. On a terminal without
// color support lipgloss degrades to plain text, so output stays greppable.
package logtail
