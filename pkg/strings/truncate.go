// Package strings holds text helpers for terminal output.
package strings

import (
	"strings"
)

// DescriptionWidth is the default width of description columns.
const DescriptionWidth = 60

// minWidth leaves room for one character plus the ellipsis.
const minWidth = 4

// SingleLine collapses every run of whitespace, newlines included, into one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most width runes, marking the cut with "...".
// Widths below 4 are raised to 4.
func Truncate(s string, width int) string {
	if width < minWidth {
		width = minWidth
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// TruncateLine is SingleLine followed by Truncate.
func TruncateLine(s string, width int) string {
	return Truncate(SingleLine(s), width)
}
