// Package modal renders declarative dialogs built from sections and keeps
// their mouse hit regions in sync with what was drawn.
package modal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/jotter/internal/mouse"
)

// Region IDs registered around every modal.
const (
	RegionBackdrop = "modal-backdrop"
	RegionBody     = "modal-body"
)

// ActionCancel is returned for Esc and backdrop clicks.
const ActionCancel = "cancel"

// Modal is a dialog assembled from sections.
type Modal struct {
	title           string
	variant         Variant
	width           int
	sections        []Section
	showHints       bool
	primaryAction   string
	closeOnBackdrop bool
	shortcuts       map[string]string
	initialFocus    string

	focusIdx     int
	hoverID      string
	focusIDs     []string // rebuilt on every Render
	scrollOffset int

	focusPositions map[string]focusablePos
	lastViewportH  int
}

// focusablePos is a focusable's line span within the unscrolled content.
type focusablePos struct {
	y      int
	height int
}

// New creates a modal.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:           title,
		variant:         VariantDefault,
		width:           DefaultWidth,
		showHints:       true,
		closeOnBackdrop: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section. Returns the modal for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Render draws the modal for a screen of screenW x screenH and, when
// handler is non-nil, replaces its hit regions with the modal's.
func (m *Modal) Render(screenW, screenH int, handler *mouse.Handler) string {
	return m.buildLayout(screenW, screenH, handler)
}

// HandleKey processes a key and returns the triggered action, if any.
// Esc cancels, Tab and Shift+Tab move focus, Enter activates the focused
// element and other keys go to the focused section.
func (m *Modal) HandleKey(msg tea.KeyMsg) (action string, cmd tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		return ActionCancel, nil
	case "tab":
		m.cycleFocus(1)
		return "", nil
	case "shift+tab":
		m.cycleFocus(-1)
		return "", nil
	}

	if a, ok := m.shortcuts[key]; ok && !m.focusedCapturesText(msg) {
		return a, nil
	}

	if key == "enter" && m.focusedConsumesEnter() {
		return m.routeToFocusedSection(msg)
	}
	if key == "enter" {
		focusID := m.currentFocusID()
		if focusID == "" {
			return m.primaryAction, nil
		}
		action, cmd = m.routeToFocusedSection(msg)
		if action != "" || m.isButton(focusID) {
			return action, cmd
		}
		if m.primaryAction != "" {
			return m.primaryAction, cmd
		}
		return focusID, cmd
	}

	return m.routeToFocusedSection(msg)
}

// HandleMouse processes a mouse event against the regions registered by the
// last Render and returns the clicked element's action, if any.
func (m *Modal) HandleMouse(msg tea.MouseMsg, handler *mouse.Handler) string {
	action := handler.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return ""
		}
		switch id := action.Region.ID; id {
		case RegionBackdrop:
			if m.closeOnBackdrop {
				return ActionCancel
			}
			return ""
		case RegionBody:
			return ""
		default:
			for i, fid := range m.focusIDs {
				if fid == id {
					m.focusIdx = i
					if a := m.clickAction(id, action.Region.Data); a != "" {
						return a
					}
					return id
				}
			}
		}
		return ""

	case mouse.ActionHover:
		m.hoverID = ""
		if action.Region != nil && action.Region.ID != RegionBackdrop && action.Region.ID != RegionBody {
			m.hoverID = action.Region.ID
		}
		return ""

	case mouse.ActionScrollUp:
		if action.Region != nil && action.Region.ID == RegionBody {
			m.scrollOffset = max(0, m.scrollOffset+action.Delta)
		}
		return ""

	case mouse.ActionScrollDown:
		if action.Region != nil && action.Region.ID == RegionBody {
			m.scrollOffset += action.Delta
		}
		return ""
	}
	return ""
}

// SetFocus focuses the element with the given ID if it was rendered.
func (m *Modal) SetFocus(id string) {
	for i, fid := range m.focusIDs {
		if fid == id {
			m.focusIdx = i
			return
		}
	}
}

// FocusedID returns the focused element ID.
func (m *Modal) FocusedID() string {
	return m.currentFocusID()
}

// HoveredID returns the hovered element ID.
func (m *Modal) HoveredID() string {
	return m.hoverID
}

func (m *Modal) currentFocusID() string {
	if len(m.focusIDs) == 0 {
		return ""
	}
	if m.focusIdx < 0 || m.focusIdx >= len(m.focusIDs) {
		return m.focusIDs[0]
	}
	return m.focusIDs[m.focusIdx]
}

func (m *Modal) cycleFocus(delta int) {
	if len(m.focusIDs) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + len(m.focusIDs)) % len(m.focusIDs)
	m.scrollToFocused()
}

// scrollToFocused keeps the focused element inside the last viewport.
func (m *Modal) scrollToFocused() {
	pos, ok := m.focusPositions[m.currentFocusID()]
	if !ok || m.lastViewportH <= 0 {
		return
	}
	if pos.y < m.scrollOffset {
		m.scrollOffset = pos.y
	}
	if pos.y+pos.height > m.scrollOffset+m.lastViewportH {
		m.scrollOffset = pos.y + pos.height - m.lastViewportH
	}
}

func (m *Modal) routeToFocusedSection(msg tea.KeyMsg) (string, tea.Cmd) {
	focusID := m.currentFocusID()
	if focusID == "" {
		return "", nil
	}
	for _, s := range m.sections {
		action, cmd := s.Update(msg, focusID)
		if action != "" || cmd != nil {
			return action, cmd
		}
	}
	return "", nil
}

// focusedCapturesText reports whether a printable key should be typed into
// the focused input instead of firing a shortcut.
func (m *Modal) focusedCapturesText(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		return false
	}
	focusID := m.currentFocusID()
	for _, s := range flatten(m.sections) {
		if tc, ok := s.(textCapturer); ok && tc.capturesText(focusID) {
			return true
		}
	}
	return false
}

func (m *Modal) focusedConsumesEnter() bool {
	focusID := m.currentFocusID()
	for _, s := range flatten(m.sections) {
		if ec, ok := s.(enterConsumer); ok && ec.consumesEnter(focusID) {
			return true
		}
	}
	return false
}

func (m *Modal) isButton(id string) bool {
	for _, s := range flatten(m.sections) {
		if b, ok := s.(*buttonsSection); ok && b.has(id) {
			return true
		}
	}
	return false
}

// clickAction lets a section turn a click on one of its regions into an
// action other than the region ID.
func (m *Modal) clickAction(id string, data any) string {
	for _, s := range flatten(m.sections) {
		if c, ok := s.(clickHandler); ok {
			if a := c.handleClick(id, data); a != "" {
				return a
			}
		}
	}
	return ""
}
