package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", SingleLine("  a\n\tb   c\r\n"))
	assert.Equal(t, "", SingleLine(" \n "))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "abcdefghij", 10, "abcdefghij"},
		{"cut", "abcdefghijklmnop", 10, "abcdefg..."},
		{"unicode", "héllo wörld ünïcode", 8, "héllo..."},
		{"width clamped", "abcdefgh", 1, "a..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "first second...", TruncateLine("first\nsecond third fourth", 15))
}
