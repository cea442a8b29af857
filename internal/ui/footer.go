package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/jotter/internal/styles"
)

// Hint is one key hint in the footer.
type Hint struct {
	Key   string
	Label string
}

// RenderHints renders hints on one footer line of exactly width cells.
// Hints that do not fit are dropped from the end.
func RenderHints(hints []Hint, width int) string {
	if width <= 0 {
		return ""
	}
	var (
		parts []string
		used  int
	)
	for _, h := range hints {
		part := styles.KeyHint.Render(h.Key) + " " + styles.Muted.Render(h.Label)
		w := ansi.StringWidth(part)
		if used > 0 {
			w += 2
		}
		if used+w > width-1 {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return styles.Footer.Width(width).Render(" " + strings.Join(parts, "  "))
}

// RenderToast renders a status message chip.
func RenderToast(message string, isError bool) string {
	if isError {
		return styles.ToastError.Render(message)
	}
	return styles.ToastSuccess.Render(message)
}

// Truncate shortens s to width display cells, ending in an ellipsis when
// cut. Wide runes count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// FirstLine returns s up to its first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
