package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/jotter/internal/styles"
)

// Section is one block of modal content.
type Section interface {
	// Render draws the section. focusID and hoverID are the modal's
	// current focus and hover targets.
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	// Update handles a key while focusID is focused and returns an action
	// when the key triggers one.
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// RenderedSection is a section's output.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
	// Targets are clickable areas that are not Tab stops. A click on one
	// focuses the target's ID and hands Data to the section.
	Targets []FocusableInfo
}

// FocusableInfo locates an element relative to its section's top-left.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
	Data    any
}

// textCapturer sections take printable keys as input.
type textCapturer interface {
	capturesText(focusID string) bool
}

// enterConsumer sections use Enter themselves (newlines).
type enterConsumer interface {
	consumesEnter(focusID string) bool
}

// clickHandler sections turn clicks on their targets into actions.
type clickHandler interface {
	handleClick(id string, data any) string
}

// measureHeight counts lines, ignoring one trailing newline.
func measureHeight(content string) int {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// flatten unwraps conditional sections so type checks see what they hold.
func flatten(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if w, ok := s.(*whenSection); ok {
			out = append(out, flatten([]Section{w.section})...)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Text

type textSection struct {
	text  string
	style lipgloss.Style
}

// Text renders wrapped static text.
func Text(s string) Section {
	return &textSection{text: s, style: styles.Body}
}

// StyledText renders wrapped static text with style.
func StyledText(s string, style lipgloss.Style) Section {
	return &textSection{text: s, style: style}
}

func (s *textSection) Render(contentWidth int, _, _ string) RenderedSection {
	if s.text == "" {
		return RenderedSection{}
	}
	return RenderedSection{Content: s.style.Width(contentWidth).Render(s.text)}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// Spacer

type spacerSection struct{}

// Spacer renders one blank line.
func Spacer() Section { return spacerSection{} }

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// When

type whenSection struct {
	cond    func() bool
	section Section
}

// When renders section only while cond returns true. A hidden section
// takes no space.
func When(cond func() bool, section Section) Section {
	return &whenSection{cond: cond, section: section}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.section.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.section.Update(msg, focusID)
}

// Custom

type customSection struct {
	render func(contentWidth int, focusID, hoverID string) RenderedSection
	update func(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// Custom builds a section from functions. update may be nil.
func Custom(
	render func(contentWidth int, focusID, hoverID string) RenderedSection,
	update func(msg tea.Msg, focusID string) (string, tea.Cmd),
) Section {
	return &customSection{render: render, update: update}
}

func (s *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return s.render(contentWidth, focusID, hoverID)
}

func (s *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}

// Buttons

// Button is one entry in a Buttons row.
type Button struct {
	Label    string
	ID       string
	danger   bool
	disabled bool
}

// ButtonOption configures a Button.
type ButtonOption func(*Button)

// BtnDanger styles the button as destructive.
func BtnDanger() ButtonOption {
	return func(b *Button) { b.danger = true }
}

// BtnDisabled greys the button out and removes it from focus and clicks.
func BtnDisabled(disabled bool) ButtonOption {
	return func(b *Button) { b.disabled = disabled }
}

// Btn creates a button.
func Btn(label, id string, opts ...ButtonOption) Button {
	b := Button{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type buttonsSection struct {
	buttons []Button
}

// Buttons renders a row of buttons. Enter on a focused button returns its ID.
func Buttons(buttons ...Button) Section {
	return &buttonsSection{buttons: buttons}
}

func (s *buttonsSection) has(id string) bool {
	for _, b := range s.buttons {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *buttonsSection) Render(_ int, focusID, hoverID string) RenderedSection {
	const gap = 2
	var (
		parts      []string
		focusables []FocusableInfo
		x          int
	)
	for i, b := range s.buttons {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", gap))
			x += gap
		}
		rendered := buttonStyle(b, focusID == b.ID, hoverID == b.ID).Render(b.Label)
		w := lipgloss.Width(rendered)
		parts = append(parts, rendered)
		if !b.disabled {
			focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		}
		x += w
	}
	return RenderedSection{
		Content:    lipgloss.JoinHorizontal(lipgloss.Top, parts...),
		Focusables: focusables,
	}
}

func buttonStyle(b Button, focused, hovered bool) lipgloss.Style {
	switch {
	case b.disabled:
		return styles.ButtonDisabled
	case b.danger && focused:
		return styles.ButtonDangerFocused
	case b.danger && hovered:
		return styles.ButtonDangerHover
	case b.danger:
		return styles.ButtonDanger
	case focused:
		return styles.ButtonFocused
	case hovered:
		return styles.ButtonHover
	}
	return styles.Button
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() != "enter" {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID && !b.disabled {
			return b.ID, nil
		}
	}
	return "", nil
}

// Input

type inputSection struct {
	id    string
	label string
	input *textinput.Model
}

// InputWithLabel renders a single-line text input under a label. Enter
// falls through to the modal's primary action.
func InputWithLabel(id, label string, input *textinput.Model) Section {
	return &inputSection{id: id, label: label, input: input}
}

func (s *inputSection) capturesText(focusID string) bool { return focusID == s.id }

func (s *inputSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	focused := focusID == s.id
	if focused {
		s.input.Focus()
	} else {
		s.input.Blur()
	}
	// border(2) + prompt
	s.input.Width = max(1, contentWidth-2-lipgloss.Width(s.input.Prompt)-1)

	box := fieldBox(focused, contentWidth).Render(s.input.View())
	content, offsetY := box, 0
	if s.label != "" {
		content = styles.Label.Render(s.label) + "\n" + box
		offsetY = 1
	}
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID: s.id, OffsetY: offsetY, Width: contentWidth, Height: lipgloss.Height(box),
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		return "", nil
	}
	var cmd tea.Cmd
	*s.input, cmd = s.input.Update(msg)
	return "", cmd
}

// Textarea

type textareaSection struct {
	id     string
	label  string
	area   *textarea.Model
	height int
}

// TextareaWithLabel renders a multi-line input of the given height under a
// label. Enter inserts a newline.
func TextareaWithLabel(id, label string, area *textarea.Model, height int) Section {
	return &textareaSection{id: id, label: label, area: area, height: height}
}

func (s *textareaSection) capturesText(focusID string) bool  { return focusID == s.id }
func (s *textareaSection) consumesEnter(focusID string) bool { return focusID == s.id }

func (s *textareaSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	focused := focusID == s.id
	if focused {
		s.area.Focus()
	} else {
		s.area.Blur()
	}
	s.area.SetWidth(max(1, contentWidth-2))
	s.area.SetHeight(max(1, s.height))

	box := fieldBox(focused, contentWidth).Render(s.area.View())
	content, offsetY := box, 0
	if s.label != "" {
		content = styles.Label.Render(s.label) + "\n" + box
		offsetY = 1
	}
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID: s.id, OffsetY: offsetY, Width: contentWidth, Height: lipgloss.Height(box),
		}},
	}
}

func (s *textareaSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	var cmd tea.Cmd
	*s.area, cmd = s.area.Update(msg)
	return "", cmd
}

func fieldBox(focused bool, width int) lipgloss.Style {
	border := styles.BorderNormal
	if focused {
		border = styles.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(1, width-2))
}
