package styles

import (
	"math"
	"regexp"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// RGB is a color with float channels in 0..255.
type RGB struct {
	R, G, B float64
}

// IsValidHexColor checks if a string is a valid hex color code.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// HexToRGB parses #RRGGBB[AA]. Invalid input yields black.
func HexToRGB(hex string) RGB {
	if !IsValidHexColor(hex) {
		return RGB{}
	}
	v, err := strconv.ParseUint(hex[1:7], 16, 32)
	if err != nil {
		return RGB{}
	}
	return RGB{
		R: float64(v >> 16 & 0xff),
		G: float64(v >> 8 & 0xff),
		B: float64(v & 0xff),
	}
}

var (
	black = RGB{0, 0, 0}
	white = RGB{255, 255, 255}
)

// ReadableOn picks black or white text, whichever contrasts more with bg.
func ReadableOn(bg string) lipgloss.Color {
	c := HexToRGB(bg)
	if contrastRatio(black, c) >= contrastRatio(white, c) {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#FFFFFF")
}

// Swatch renders label as a chip in the note's color. Colors that fail to
// parse fall back to Primary.
func Swatch(hex, label string) string {
	if !IsValidHexColor(hex) {
		hex = string(Primary)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(ReadableOn(hex)).
		Padding(0, 1).
		Render(label)
}

// Dot renders a single colored bullet.
func Dot(hex string) string {
	if !IsValidHexColor(hex) {
		hex = string(Primary)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

func contrastRatio(fg, bg RGB) float64 {
	l1 := relativeLuminance(fg)
	l2 := relativeLuminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(c RGB) float64 {
	return 0.2126*linearize(c.R/255) + 0.7152*linearize(c.G/255) + 0.0722*linearize(c.B/255)
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
