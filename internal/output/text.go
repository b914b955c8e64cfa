package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most maxWidth terminal columns, appending "..."
// when it has to cut. Coloring happens after truncation, so no ANSI handling
// is needed here.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth-3, "") + "..."
}

// pad right-pads s with spaces to the target display width.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
