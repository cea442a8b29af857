package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/jotter/internal/styles"
)

// Choice is one option in a Choices picker.
type Choice struct {
	Value string
	Label string
	// Color renders the option as a swatch of this hex color.
	Color string
}

// choicesSection is a horizontal single-select picker. The whole picker is
// one Tab stop; each option is a click target.
type choicesSection struct {
	id       string
	label    string
	choices  []Choice
	selected *int
}

// Choices creates a picker. selected points at the chosen index. Changing
// the selection returns the picker ID as the action.
func Choices(id, label string, choices []Choice, selected *int) Section {
	return &choicesSection{id: id, label: label, choices: choices, selected: selected}
}

func (s *choicesSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	focused := focusID == s.id
	const gap = 1

	var (
		lines   []string
		line    []string
		targets []FocusableInfo
		x, y    int
	)
	if s.label != "" {
		label := styles.Label.Render(s.label)
		if focused {
			label = styles.ListCursor.Render("▸ ") + label
		}
		lines = append(lines, label)
		y = 1
	}

	for i, c := range s.choices {
		chip := s.renderChip(c, i == *s.selected, focused)
		w := lipgloss.Width(chip)
		if x > 0 && x+gap+w > contentWidth {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, x = nil, 0
			y++
		}
		if x > 0 {
			line = append(line, " ")
			x += gap
		}
		line = append(line, chip)
		targets = append(targets, FocusableInfo{ID: s.id, OffsetX: x, OffsetY: y, Width: w, Height: 1, Data: i})
		x += w
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID: s.id, Width: contentWidth, Height: measureHeight(content),
		}},
		Targets: targets,
	}
}

func (s *choicesSection) renderChip(c Choice, selected, focused bool) string {
	if c.Color != "" {
		mark := "   "
		if selected {
			mark = " ✓ "
		}
		return styles.Swatch(c.Color, mark)
	}
	switch {
	case selected && focused:
		return styles.ButtonFocused.Padding(0, 1).Render(c.Label)
	case selected:
		return styles.ListItemSelected.Padding(0, 1).Bold(true).Render(c.Label)
	}
	return styles.Button.Padding(0, 1).Render(c.Label)
}

func (s *choicesSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id || s.selected == nil || len(s.choices) == 0 {
		return "", nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}

	prev := *s.selected
	switch key.String() {
	case "left", "h":
		*s.selected = (*s.selected - 1 + len(s.choices)) % len(s.choices)
	case "right", "l", " ":
		*s.selected = (*s.selected + 1) % len(s.choices)
	case "home":
		*s.selected = 0
	case "end":
		*s.selected = len(s.choices) - 1
	}
	if *s.selected != prev {
		return s.id, nil
	}
	return "", nil
}

func (s *choicesSection) handleClick(id string, data any) string {
	if id != s.id || s.selected == nil {
		return ""
	}
	i, ok := data.(int)
	if !ok || i < 0 || i >= len(s.choices) {
		return ""
	}
	*s.selected = i
	return s.id
}
