package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/jotter/internal/keymap"
	"github.com/marcus/jotter/internal/modal"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/styles"
	"github.com/marcus/jotter/internal/ui"
)

// Form focus IDs.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldColor       = "color"
)

const (
	descriptionRows = 5
	labelWidth      = 9
)

// syncModal rebuilds the modal when the editor moved to a different state
// or the loading flag flipped. Focus carries over when the element still
// exists.
func (m *Model) syncModal() {
	kind := m.activeModal()
	if kind == ModalNone {
		m.modal, m.modalKey, m.form = nil, "", nil
		return
	}

	key := fmt.Sprintf("%d/%T/%t", kind, m.editor.State(), m.editor.Loading())
	if m.modal != nil && key == m.modalKey {
		return
	}

	focus := ""
	if m.modal != nil && strings.HasPrefix(m.modalKey, fmt.Sprintf("%d/", kind)) {
		focus = m.modal.FocusedID()
	}

	switch kind {
	case ModalView:
		m.modal = m.viewModal(focus)
	case ModalForm:
		if m.form == nil {
			d, _ := m.editor.Draft()
			m.form = newNoteForm(d)
		}
		m.modal = m.formModal(focus)
	case ModalDelete:
		m.modal = m.deleteModal()
	}
	m.modalKey = key
}

// shortcutOptions turns a keymap context into modal shortcuts.
func (m *Model) shortcutOptions(context string) []modal.Option {
	var opts []modal.Option
	for key, command := range m.keymap.Shortcuts(context) {
		opts = append(opts, modal.WithShortcut(key, command))
	}
	return opts
}

// viewModal shows a note read-only.
func (m *Model) viewModal(focus string) *modal.Modal {
	ed, layout, now := m.editor, m.cfg.UI.DateFormat, m.now
	md := m.markdown
	renderMarkdown := m.cfg.UI.RenderMarkdown

	opts := append([]modal.Option{
		modal.WithWidth(ui.ModalWidthLarge),
		modal.WithInitialFocus(focus),
	}, m.shortcutOptions(keymap.ContextView)...)

	return modal.New(ed.Title(), opts...).
		AddSection(modal.StyledText(ed.Subtitle(), styles.Muted)).
		AddSection(modal.Spacer()).
		AddSection(modal.Custom(func(width int, _, _ string) modal.RenderedSection {
			d, ok := ed.Details(layout, now())
			if !ok {
				return modal.RenderedSection{}
			}
			title := styles.Title.Width(max(1, width-2)).Render(d.Title)
			return modal.RenderedSection{
				Content: lipgloss.JoinHorizontal(lipgloss.Top, styles.Dot(string(d.Color))+" ", title),
			}
		}, nil)).
		AddSection(modal.Spacer()).
		AddSection(modal.Custom(func(width int, _, _ string) modal.RenderedSection {
			d, ok := ed.Details(layout, now())
			if !ok {
				return modal.RenderedSection{}
			}
			inner := max(1, width-4)
			body := styles.Muted.Render("No description")
			switch {
			case strings.TrimSpace(d.Description) == "":
			case renderMarkdown:
				body = md.Render(d.Description, inner)
			default:
				body = styles.Body.Width(inner).Render(d.Description)
			}
			box := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(styles.BorderNormal).
				Padding(0, 1).
				Width(max(1, width-2)).
				Render(body)
			return modal.RenderedSection{Content: box}
		}, nil)).
		AddSection(modal.Spacer()).
		AddSection(modal.Custom(func(int, string, string) modal.RenderedSection {
			d, ok := ed.Details(layout, now())
			if !ok {
				return modal.RenderedSection{}
			}
			rows := []string{
				metaRow("Category", styles.Swatch(string(d.Color), string(d.Category))),
				metaRow("Created", styles.Body.Render(d.Created)),
			}
			if d.Updated != "" {
				rows = append(rows, metaRow("Updated", styles.Body.Render(d.Updated)))
			}
			return modal.RenderedSection{Content: strings.Join(rows, "\n")}
		}, nil)).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(" Edit ", keymap.CmdEdit),
			modal.Btn(" Delete ", keymap.CmdDelete, modal.BtnDanger()),
			modal.Btn(" Close ", keymap.CmdClose),
		))
}

func metaRow(label, value string) string {
	return styles.Label.Width(labelWidth).Render(label) + " " + value
}

// formModal edits the draft through the inputs in m.form.
func (m *Model) formModal(focus string) *modal.Modal {
	ed, f := m.editor, m.form
	loading := ed.Loading()

	opts := append([]modal.Option{
		modal.WithWidth(ui.ModalWidthLarge),
		modal.WithPrimaryAction(keymap.CmdSubmit),
		modal.WithCloseOnBackdropClick(false),
		modal.WithInitialFocus(focus),
	}, m.shortcutOptions(keymap.ContextForm)...)

	return modal.New(ed.Title(), opts...).
		AddSection(modal.StyledText(ed.Subtitle(), styles.Muted)).
		AddSection(modal.Spacer()).
		AddSection(modal.InputWithLabel(fieldTitle, "Title", &f.title)).
		AddSection(modal.Spacer()).
		AddSection(modal.TextareaWithLabel(fieldDescription, "Description", &f.desc, descriptionRows)).
		AddSection(modal.Spacer()).
		AddSection(modal.Choices(fieldCategory, "Category", categoryChoices(), &f.category)).
		AddSection(modal.Spacer()).
		AddSection(modal.Choices(fieldColor, "Color", colorChoices(), &f.color)).
		AddSection(modal.When(func() bool { return ed.ErrMessage() != "" },
			modal.Custom(func(width int, _, _ string) modal.RenderedSection {
				msg := styles.ErrorText.Width(width).Render("✗ " + ed.ErrMessage())
				return modal.RenderedSection{Content: " \n" + msg}
			}, nil))).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(" "+ed.SubmitLabel()+" ", keymap.CmdSubmit, modal.BtnDisabled(loading)),
			modal.Btn(" Cancel ", keymap.CmdCancel, modal.BtnDisabled(loading)),
		))
}

// deleteModal asks before deleting the viewed note.
func (m *Model) deleteModal() *modal.Modal {
	d := ui.NewDeleteDialog("Delete note", "Are you sure you want to delete this note?")
	d.Shortcuts = m.keymap.Shortcuts(keymap.ContextDelete)
	return d.ToModal()
}

func categoryChoices() []modal.Choice {
	out := make([]modal.Choice, len(note.Categories))
	for i, c := range note.Categories {
		out[i] = modal.Choice{Value: string(c), Label: string(c)}
	}
	return out
}

func colorChoices() []modal.Choice {
	out := make([]modal.Choice, len(note.Colors))
	for i, c := range note.Colors {
		out[i] = modal.Choice{Value: string(c), Label: "  ", Color: string(c)}
	}
	return out
}

// markdownRenderer caches a glamour renderer per wrap width.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// Render renders text as markdown wrapped at width. It falls back to plain
// wrapped text when glamour fails.
func (r *markdownRenderer) Render(text string, width int) string {
	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(styles.MarkdownTheme),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return styles.Body.Width(width).Render(text)
		}
		r.renderer, r.width = tr, width
	}
	out, err := r.renderer.Render(strings.TrimSpace(text))
	if err != nil {
		return styles.Body.Width(width).Render(text)
	}
	return strings.Trim(out, "\n")
}
