package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/marcus/jotter/internal/keymap"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/styles"
	"github.com/marcus/jotter/internal/ui"
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.width < minWidth || m.height < minHeight {
		return styles.Muted.Render(fmt.Sprintf(
			"Terminal too small (%dx%d). Need at least %dx%d.",
			m.width, m.height, minWidth, minHeight))
	}

	footerLines := 0
	if m.showFooter {
		footerLines = footerHeight
	}
	contentHeight := m.height - headerHeight - footerLines

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	content := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(m.renderList(contentHeight))
	b.WriteString(content)

	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(ui.RenderHints(m.keymap.Hints(m.activeContext()), m.width))
	}

	out := b.String()
	if m.toast != nil {
		chip := ui.RenderToast(ui.Truncate(m.toast.message, m.width-4), m.toast.isError)
		out = ui.OverlayBottomRight(out, chip, m.width, m.height, footerLines)
	}
	if m.modal != nil {
		// Render also replaces the list's hit regions with the modal's.
		out = ui.OverlayModal(out, m.modal.Render(m.width, m.height, m.mouse), m.width, m.height)
	}
	return out
}

// renderHeader renders the title bar and the rule under it.
func (m Model) renderHeader() string {
	left := styles.Logo.Render("jotter")

	var status string
	switch {
	case m.loading:
		status = "loading…"
	case m.loadErr != nil:
		status = "offline"
	default:
		status = fmt.Sprintf("%s %s", humanize.Comma(int64(len(m.notes))), plural(len(m.notes), "note", "notes"))
	}
	right := styles.Muted.Render(status + " ")

	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	title := styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
	rule := styles.Subtle.Render(strings.Repeat("─", m.width))
	return title + "\n" + rule
}

// renderList renders the visible items and registers one hit region per
// item.
func (m Model) renderList(height int) string {
	m.mouse.HitMap.Clear()

	if len(m.notes) == 0 {
		return m.renderEmpty(height)
	}

	visible := m.visibleItems()
	end := min(len(m.notes), m.offset+visible)
	items := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		y := headerHeight + (i-m.offset)*itemHeight
		m.mouse.HitMap.AddRect(regionItemPrefix+m.notes[i].ID, 0, y, m.width, itemHeight-1, i)
		items = append(items, m.renderItem(m.notes[i], i == m.cursor))
	}
	return strings.Join(items, "\n")
}

// renderEmpty shows the loading, error or empty hint, centered.
func (m Model) renderEmpty(height int) string {
	var msg string
	switch {
	case m.loading:
		msg = styles.Muted.Render("Loading notes...")
	case m.loadErr != nil:
		msg = styles.ErrorText.Render("Could not load notes: "+note.Message(m.loadErr)) + "\n" +
			styles.Muted.Render(fmt.Sprintf("Press %s to retry", m.keyFor(keymap.ContextList, keymap.CmdReload)))
	default:
		msg = styles.Subtitle.Render("No notes yet") + "\n" +
			styles.Muted.Render(fmt.Sprintf("Press %s to create one", m.keyFor(keymap.ContextList, keymap.CmdNew)))
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
}

// renderItem renders one note as itemHeight lines: title with badge, two
// description lines, the created date and a blank gap.
func (m Model) renderItem(n note.Note, selected bool) string {
	color := string(n.ColorOrDefault())
	width := m.width - 2 // cursor column + right margin
	inner := max(1, width-2)

	cursor := "  "
	style := styles.ListItemNormal
	if selected {
		cursor = styles.ListCursor.Render("▌ ")
		style = styles.ListItemSelected
	}

	badge := ""
	if n.Category != "" {
		badge = styles.Swatch(color, string(n.Category))
	}
	titleWidth := max(1, inner-lipgloss.Width(badge)-1)
	title := styles.Title.Render(ui.Truncate(ui.FirstLine(n.Title), titleWidth))
	gap := max(1, inner-lipgloss.Width(title)-lipgloss.Width(badge))
	line1 := styles.Dot(color) + " " + title + strings.Repeat(" ", gap) + badge

	desc := descriptionLines(n.Description, inner, 2)
	date := styles.Subtle.Render(note.FormatDate(n.CreatedAt, m.cfg.UI.DateFormat, m.now()))

	lines := []string{
		line1,
		"  " + styles.Muted.Render(desc[0]),
		"  " + styles.Muted.Render(desc[1]),
		"  " + date,
	}
	for i, l := range lines {
		lines[i] = cursor + style.Width(width).Render(l)
	}
	// blank gap before the next item
	return strings.Join(lines, "\n") + "\n"
}

// descriptionLines word-wraps s and returns exactly n lines of at most
// width cells. The last line ends in an ellipsis when text was cut.
func descriptionLines(s string, width, n int) []string {
	flat := strings.Join(strings.Fields(s), " ")
	wrapped := strings.Split(wordwrap.String(flat, width), "\n")

	out := make([]string, n)
	for i := range out {
		if i < len(wrapped) {
			out[i] = ui.Truncate(wrapped[i], width)
		}
	}
	if len(wrapped) > n {
		out[n-1] = ui.Truncate(out[n-1]+" …", width)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
