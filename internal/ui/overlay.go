// Package ui holds rendering helpers shared by jotter screens.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out the screen behind a modal. Existing colors are stripped
// first because SGR faint does not combine reliably with them.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// OverlayModal centers fg over a dimmed background of width x height.
func OverlayModal(background, fg string, width, height int) string {
	lines := strings.Split(fg, "\n")
	w := maxLineWidth(lines)
	x := max(0, (width-w)/2)
	y := max(0, (height-len(lines))/2)
	return overlay(background, lines, x, y, w, width, height, true)
}

// OverlayBottomRight places fg in the bottom right corner, bottomMargin
// lines above the last row. The background keeps its colors.
func OverlayBottomRight(background, fg string, width, height, bottomMargin int) string {
	lines := strings.Split(fg, "\n")
	w := maxLineWidth(lines)
	x := max(0, width-w-1)
	y := max(0, height-bottomMargin-len(lines))
	return overlay(background, lines, x, y, w, width, height, false)
}

func overlay(background string, fg []string, x, y, fgWidth, width, height int, dim bool) string {
	bg := strings.Split(background, "\n")
	for len(bg) < height {
		bg = append(bg, "")
	}

	out := make([]string, height)
	for row := range out {
		i := row - y
		switch {
		case i >= 0 && i < len(fg):
			out[row] = compositeRow(bg[row], fg[i], x, fgWidth, width, dim)
		case dim:
			out[row] = dimLine(bg[row])
		default:
			out[row] = bg[row]
		}
	}
	return strings.Join(out, "\n")
}

func maxLineWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}

func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow splices fgLine into bgLine at column x.
func compositeRow(bgLine, fgLine string, x, fgWidth, totalWidth int, dim bool) string {
	if dim {
		bgLine = ansi.Strip(bgLine)
	}
	bgWidth := ansi.StringWidth(bgLine)
	paint := func(s string) string {
		if dim {
			return DimStyle.Render(s)
		}
		return s
	}

	var b strings.Builder
	if x > 0 {
		left := ansi.Truncate(bgLine, x, "")
		b.WriteString(paint(left))
		if w := ansi.StringWidth(left); w < x {
			b.WriteString(strings.Repeat(" ", x-w))
		}
	}
	b.WriteString(fgLine)

	if right := x + fgWidth; right < totalWidth && bgWidth > right {
		b.WriteString(paint(ansi.Cut(bgLine, right, bgWidth)))
	}
	return b.String()
}
