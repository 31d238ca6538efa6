package utils

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate cuts s to maxLen terminal cells and appends an ellipsis. Wide
// runes and ANSI styling are measured the way the terminal draws them.
func Truncate(s string, maxLen int) string {
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "") + "..."
}

// Oneline collapses all whitespace runs, including newlines, to single
// spaces.
func Oneline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
