package app

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/jotter/internal/editor"
	"github.com/marcus/jotter/internal/keymap"
	"github.com/marcus/jotter/internal/mouse"
	appmsg "github.com/marcus/jotter/internal/msg"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/state"
)

// regionItemPrefix prefixes list item hit regions. Data is the item index.
const regionItemPrefix = "note:"

// Update handles all messages and routes them appropriately.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// the editor settles its own store results first
	wasLoading := m.editor.Loading()
	if cmd := m.editor.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if wasLoading && !m.editor.Loading() && m.editor.Err() != nil {
		cmds = append(cmds, appmsg.ShowErrorToast(m.editor.ErrMessage(), m.toastDuration()))
	}

	next, cmd := m.update(msg)
	cmds = append(cmds, cmd)
	next.syncModal()
	return next, tea.Batch(cmds...)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case notesLoadedMsg:
		return m.handleNotesLoaded(msg)

	case watchStartedMsg:
		if msg.err != nil {
			m.logger.Warn("store watch unavailable", "err", msg.err)
			return m, nil
		}
		m.changes = msg.changes
		return m, waitForChangeCmd(m.changes)

	case storeChangedMsg:
		m.logger.Debug("store changed externally")
		return m, tea.Batch(m.reload(), waitForChangeCmd(m.changes))

	case editor.SavedMsg:
		m.selected = msg.Note.ID
		text := "Note saved"
		if msg.Created {
			text = "Note created"
		}
		return m, tea.Batch(m.reload(), appmsg.ShowToast(text, m.toastDuration()))

	case editor.DeletedMsg:
		if msg.Err != nil {
			return m, appmsg.ShowErrorToast("Delete failed: "+note.Message(msg.Err), m.toastDuration())
		}
		text := "Note deleted"
		if _, ok := m.store.(note.Restorer); ok {
			if err := state.SetLastDeletedID(msg.ID); err != nil {
				m.logger.Warn("save state", "err", err)
			}
			text = fmt.Sprintf("Note deleted · %s to undo", m.keyFor(keymap.ContextList, keymap.CmdRestore))
		}
		return m, tea.Batch(m.reload(), appmsg.ShowToast(text, m.toastDuration()))

	case editor.EditRequestedMsg:
		m.openForm(m.editor.PresentEdit(msg.Note))
		return m, nil

	case editor.ClosedMsg:
		return m, nil

	case restoredMsg:
		if msg.err != nil {
			return m, appmsg.ShowErrorToast("Restore failed: "+note.Message(msg.err), m.toastDuration())
		}
		if err := state.SetLastDeletedID(""); err != nil {
			m.logger.Warn("save state", "err", err)
		}
		m.selected = msg.note.ID
		return m, tea.Batch(m.reload(), appmsg.ShowToast("Note restored", m.toastDuration()))

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard write failed", "err", msg.err)
			return m, appmsg.ShowErrorToast("Copy failed: clipboard unavailable", m.toastDuration())
		}
		return m, appmsg.ShowToast("Copied to clipboard", m.toastDuration())

	case appmsg.ToastMsg:
		m.toastSeq++
		m.toast = &toast{message: msg.Message, isError: msg.IsError, seq: m.toastSeq}
		d := msg.Duration
		if d <= 0 {
			d = m.toastDuration()
		}
		return m, appmsg.ExpireToast(m.toastSeq, d)

	case appmsg.ToastExpiredMsg:
		if m.toast != nil && m.toast.seq == msg.Seq {
			m.toast = nil
		}
		return m, nil
	}
	return m, nil
}

// handleNotesLoaded replaces the list and puts the cursor back on the
// remembered note, or as close to the old position as the new list allows.
func (m Model) handleNotesLoaded(msg notesLoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		m.logger.Warn("list notes failed", "err", msg.err)
		return m, appmsg.ShowErrorToast("Could not load notes: "+note.Message(msg.err), m.toastDuration())
	}

	m.loadErr = nil
	m.notes = msg.notes
	idx := m.cursor
	for i, n := range m.notes {
		if n.ID == m.selected {
			idx = i
			break
		}
	}
	m.setCursor(idx)
	return m, nil
}

// handleKey routes keys: global bindings first, then the open modal or the
// list.
func (m Model) handleKey(k tea.KeyMsg) (Model, tea.Cmd) {
	key := k.String()

	if cmd, ok := m.keymap.Lookup(key, keymap.ContextGlobal); ok && !m.formOwnsKey(cmd) {
		switch cmd {
		case keymap.CmdQuit:
			m.Shutdown()
			return m, tea.Quit
		case keymap.CmdToggleFooter:
			m.showFooter = !m.showFooter
			if err := state.SetShowFooter(m.showFooter); err != nil {
				m.logger.Warn("save state", "err", err)
			}
			m.ensureVisible()
			return m, nil
		}
	}

	if m.modal != nil {
		action, cmd := m.modal.HandleKey(k)
		m.syncForm()
		next, actionCmd := m.handleModalAction(action)
		return next, tea.Batch(cmd, actionCmd)
	}
	return m.handleListKey(key)
}

// formOwnsKey reports whether the open form keeps a global key for its text
// inputs. Some terminals send ctrl+h for backspace.
func (m *Model) formOwnsKey(cmd string) bool {
	return m.activeModal() == ModalForm && cmd != keymap.CmdQuit
}

func (m Model) handleListKey(key string) (Model, tea.Cmd) {
	cmd, ok := m.keymap.Lookup(key, keymap.ContextList)
	if !ok {
		return m, nil
	}

	switch cmd {
	case keymap.CmdQuit:
		m.Shutdown()
		return m, tea.Quit
	case keymap.CmdCursorDown:
		m.setCursor(m.cursor + 1)
	case keymap.CmdCursorUp:
		m.setCursor(m.cursor - 1)
	case keymap.CmdCursorTop:
		m.setCursor(0)
	case keymap.CmdCursorBottom:
		m.setCursor(len(m.notes) - 1)
	case keymap.CmdView:
		if n, ok := m.SelectedNote(); ok {
			m.present(m.editor.PresentView(n))
		}
	case keymap.CmdNew:
		m.openForm(m.editor.PresentCreate())
	case keymap.CmdEdit:
		if n, ok := m.SelectedNote(); ok {
			m.openForm(m.editor.PresentEdit(n))
		}
	case keymap.CmdReload:
		return m, m.reload()
	case keymap.CmdRestore:
		return m, m.restoreLastDeleted()
	}
	return m, nil
}

// handleModalAction applies a modal action to the editor.
func (m Model) handleModalAction(action string) (Model, tea.Cmd) {
	if action == "" {
		return m, nil
	}

	switch m.activeModal() {
	case ModalView:
		switch action {
		case keymap.CmdEdit:
			return m, m.editor.RequestEdit()
		case keymap.CmdDelete:
			m.editor.RequestDelete()
		case keymap.CmdCopy:
			if n, ok := m.editor.Note(); ok {
				return m, copyCmd(m.writeClipFn, n.Description)
			}
		case keymap.CmdClose, keymap.CmdCancel:
			return m, m.editor.Cancel()
		}

	case ModalForm:
		switch action {
		case keymap.CmdSubmit:
			return m, m.editor.Submit()
		case keymap.CmdCancel:
			return m, m.editor.Cancel()
		}

	case ModalDelete:
		switch action {
		case keymap.CmdConfirm:
			return m, m.editor.ConfirmDelete()
		case keymap.CmdCancel:
			m.editor.CancelDelete()
		}
	}
	return m, nil
}

// handleMouse routes mouse events to the modal when one is open, otherwise
// to the list.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.modal != nil {
		action := m.modal.HandleMouse(msg, m.mouse)
		m.syncForm()
		return m.handleModalAction(action)
	}

	action := m.mouse.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil || !strings.HasPrefix(action.Region.ID, regionItemPrefix) {
			return m, nil
		}
		idx, ok := action.Region.Data.(int)
		if !ok {
			return m, nil
		}
		m.setCursor(idx)
		if action.Type == mouse.ActionDoubleClick {
			if n, ok := m.SelectedNote(); ok {
				m.present(m.editor.PresentView(n))
			}
		}
	case mouse.ActionScrollUp:
		m.setCursor(m.cursor - 1)
	case mouse.ActionScrollDown:
		m.setCursor(m.cursor + 1)
	}
	return m, nil
}

// present logs a refused Present. ErrBusy only happens while a store call
// is in flight, and the key is dropped.
func (m *Model) present(err error) {
	if err != nil && !errors.Is(err, editor.ErrBusy) {
		m.logger.Warn("open note modal", "err", err)
	}
}

// openForm resets the inputs from the editor's fresh draft.
func (m *Model) openForm(err error) {
	m.present(err)
	if d, ok := m.editor.Draft(); ok && err == nil {
		m.form = newNoteForm(d)
		m.modal = nil // rebuilt by syncModal with the new inputs
	}
}

// syncForm copies the inputs into the editor draft.
func (m *Model) syncForm() {
	if m.form == nil || m.activeModal() != ModalForm {
		return
	}
	if err := m.editor.UpdateField(editor.FieldTitle, m.form.title.Value()); err != nil {
		m.logger.Debug("update title", "err", err)
	}
	if err := m.editor.UpdateField(editor.FieldDescription, m.form.desc.Value()); err != nil {
		m.logger.Debug("update description", "err", err)
	}
	m.editor.SelectCategory(m.form.category)
	m.editor.SelectColor(m.form.color)
}

// restoreLastDeleted undoes the most recent delete when the store keeps
// deleted notes.
func (m *Model) restoreLastDeleted() tea.Cmd {
	r, ok := m.store.(note.Restorer)
	if !ok {
		return appmsg.ShowErrorToast("This store cannot restore notes", m.toastDuration())
	}
	id := state.GetLastDeletedID()
	if id == "" {
		return appmsg.ShowToast("Nothing to restore", m.toastDuration())
	}
	return restoreCmd(r, id, m.storeTimeout())
}

// setCursor moves the cursor, scrolls it into view and remembers the note.
func (m *Model) setCursor(i int) {
	if len(m.notes) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = clamp(i, 0, len(m.notes)-1)
	m.ensureVisible()

	if id := m.notes[m.cursor].ID; id != m.selected {
		m.selected = id
		if err := state.SetSelectedNoteID(id); err != nil {
			m.logger.Warn("save state", "err", err)
		}
	}
}

// ensureVisible keeps the cursor inside the scrolled window.
func (m *Model) ensureVisible() {
	visible := m.visibleItems()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.notes)-visible))
}

// keyFor returns the first key bound to command in context.
func (m *Model) keyFor(context, command string) string {
	for _, b := range m.keymap.BindingsForContext(context) {
		if b.Command == command {
			return b.Key
		}
	}
	return command
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
