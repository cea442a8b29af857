package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderHintsFitsWidth(t *testing.T) {
	hints := []Hint{
		{Key: "n", Label: "new"},
		{Key: "enter", Label: "view"},
		{Key: "e", Label: "edit"},
		{Key: "q", Label: "quit"},
	}

	wide := ansi.Strip(RenderHints(hints, 80))
	if !strings.Contains(wide, "quit") {
		t.Errorf("all hints should fit in 80 cells, got %q", wide)
	}
	if w := ansi.StringWidth(wide); w != 80 {
		t.Errorf("footer width = %d, want 80", w)
	}

	narrow := ansi.Strip(RenderHints(hints, 20))
	if strings.Contains(narrow, "quit") {
		t.Errorf("trailing hints should be dropped at 20 cells, got %q", narrow)
	}
	if !strings.Contains(narrow, "new") {
		t.Errorf("first hint should survive, got %q", narrow)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"Groceries for the week", 10, "Groceries…"},
		{"日本語のメモ", 7, "日本語…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadRightAndFirstLine(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := FirstLine("one\ntwo"); got != "one" {
		t.Errorf("FirstLine = %q", got)
	}
	if got := FirstLine("solo"); got != "solo" {
		t.Errorf("FirstLine = %q", got)
	}
}
