package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/jotter/internal/mouse"
	"github.com/marcus/jotter/internal/styles"
)

// renderedSection is one section's output plus its measured height.
type renderedSection struct {
	content    string
	height     int
	focusables []FocusableInfo
	targets    []FocusableInfo
}

// renderSections renders every section at contentWidth, dropping the
// empty ones, and collects focusable IDs in order.
func (m *Modal) renderSections(contentWidth int) ([]renderedSection, []string) {
	focusID := m.currentFocusID()
	out := make([]renderedSection, 0, len(m.sections))
	var ids []string

	for _, s := range m.sections {
		res := s.Render(contentWidth, focusID, m.hoverID)
		h := measureHeight(res.Content)
		if res.Content == "" && h == 0 {
			continue
		}
		out = append(out, renderedSection{
			content:    res.Content,
			height:     h,
			focusables: res.Focusables,
			targets:    res.Targets,
		})
		for _, f := range res.Focusables {
			ids = append(ids, f.ID)
		}
	}
	return out, ids
}

// buildLayout renders the modal and registers its hit regions.
func (m *Modal) buildLayout(screenW, screenH int, handler *mouse.Handler) string {
	maxWidth := max(1, screenW-4)
	modalWidth := clamp(m.width, min(MinModalWidth, maxWidth), maxWidth)
	contentWidth := max(1, modalWidth-ModalPadding)

	headerLines := 0
	if m.title != "" {
		headerLines = 2
	}
	footerLines := hintLines(m.showHints)
	maxViewportH := max(1, desiredModalInnerHeight(screenH)-headerLines-footerLines)

	sections := m.layoutSections(contentWidth)
	contentH := totalHeight(sections)
	needsScrollbar := contentH > maxViewportH
	if needsScrollbar && contentWidth > 1 {
		// make room for the scrollbar column
		sections = m.layoutSections(contentWidth - 1)
		contentH = totalHeight(sections)
		needsScrollbar = contentH > maxViewportH
	}

	m.focusPositions = make(map[string]focusablePos, len(m.focusIDs))
	y := 0
	parts := make([]string, 0, len(sections))
	for _, r := range sections {
		for _, f := range r.focusables {
			m.focusPositions[f.ID] = focusablePos{y: y + f.OffsetY, height: f.Height}
		}
		y += r.height
		parts = append(parts, r.content)
	}

	viewportH, pad := maxViewportH, true
	if contentH <= maxViewportH {
		viewportH, pad = max(1, contentH), false
	}
	m.lastViewportH = viewportH
	m.scrollOffset = clamp(m.scrollOffset, 0, max(0, contentH-viewportH))

	viewport := sliceLines(strings.Join(parts, "\n"), m.scrollOffset, viewportH, pad)
	if needsScrollbar {
		viewport = lipgloss.JoinHorizontal(lipgloss.Top, viewport, renderScrollbar(contentH, m.scrollOffset, viewportH))
	}

	var inner strings.Builder
	if m.title != "" {
		inner.WriteString(renderTitleLine(m.title, m.variant))
		inner.WriteString("\n")
	}
	inner.WriteString(viewport)
	if m.showHints {
		inner.WriteString("\n")
		inner.WriteString(renderHintLine())
	}

	styled := m.modalStyle(modalWidth).Render(inner.String())
	if handler == nil {
		return styled
	}

	modalH := lipgloss.Height(styled)
	modalX := (screenW - modalWidth) / 2
	modalY := (screenH - modalH) / 2

	handler.HitMap.Clear()
	handler.HitMap.AddRect(RegionBackdrop, 0, 0, screenW, screenH, nil)
	handler.HitMap.AddRect(RegionBody, modalX, modalY, modalWidth, modalH, nil)

	contentX := modalX + 3 // border + padding
	contentY := modalY + 2 + headerLines
	sectionY := 0
	for _, r := range sections {
		for _, f := range r.focusables {
			m.addHit(handler, f, f.ID, contentX, contentY+sectionY-m.scrollOffset, contentY, viewportH)
		}
		// targets go on top so a picker's options win over the picker row
		for _, t := range r.targets {
			m.addHit(handler, t, t.Data, contentX, contentY+sectionY-m.scrollOffset, contentY, viewportH)
		}
		sectionY += r.height
	}
	return styled
}

// layoutSections renders sections and refreshes the focus order.
func (m *Modal) layoutSections(contentWidth int) []renderedSection {
	sections, ids := m.renderSections(contentWidth)
	m.focusIDs = ids
	if m.focusIdx >= len(ids) {
		m.focusIdx = 0
	}
	if m.initialFocus != "" {
		for i, id := range ids {
			if id == m.initialFocus {
				m.focusIdx = i
				m.initialFocus = ""
				break
			}
		}
	}
	return sections
}

func (m *Modal) addHit(handler *mouse.Handler, f FocusableInfo, data any, x, sectionY, viewportY, viewportH int) {
	absY := sectionY + f.OffsetY
	if !intersectsViewport(absY, f.Height, viewportY, viewportH) {
		return
	}
	handler.HitMap.AddRect(f.ID, x+f.OffsetX, absY, f.Width, f.Height, data)
}

func totalHeight(sections []renderedSection) int {
	h := 0
	for _, r := range sections {
		h += r.height
	}
	return h
}

// renderScrollbar draws a one-column track with a proportional thumb.
func renderScrollbar(total, offset, viewportH int) string {
	if viewportH < 1 || total < 1 {
		return ""
	}
	thumb := clamp(viewportH*viewportH/total, 1, viewportH)
	thumbPos := clamp(offset*(viewportH-thumb)/max(1, total-viewportH), 0, viewportH-thumb)

	track := lipgloss.NewStyle().Foreground(styles.TextSubtle).Render("│")
	bar := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("┃")

	lines := make([]string, viewportH)
	for i := range lines {
		lines[i] = track
		if i >= thumbPos && i < thumbPos+thumb {
			lines[i] = bar
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Modal) modalStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(variantColor(m.variant, styles.Primary)).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(width)
}

func renderTitleLine(title string, v Variant) string {
	return styles.ModalTitle.Foreground(variantColor(v, styles.TextPrimary)).Render(title)
}

func variantColor(v Variant, def lipgloss.Color) lipgloss.Color {
	switch v {
	case VariantDanger:
		return styles.Error
	case VariantWarning:
		return styles.Warning
	case VariantInfo:
		return styles.Info
	}
	return def
}

func renderHintLine() string {
	return styles.Muted.Render("Tab to switch · Enter to confirm · Esc to cancel")
}

func hintLines(show bool) int {
	if show {
		return 1
	}
	return 0
}

// desiredModalInnerHeight leaves room for the border and a margin.
func desiredModalInnerHeight(screenH int) int {
	return max(1, screenH-6)
}

// sliceLines returns height lines of content starting at offset, padded
// with empty lines when padToHeight is set.
func sliceLines(content string, offset, height int, padToHeight bool) string {
	lines := strings.Split(content, "\n")
	offset = min(offset, max(0, len(lines)-1))
	lines = lines[offset:]
	if len(lines) > height {
		lines = lines[:height]
	}
	for padToHeight && len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func intersectsViewport(y, h, viewportY, viewportH int) bool {
	return y < viewportY+viewportH && y+h > viewportY
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
