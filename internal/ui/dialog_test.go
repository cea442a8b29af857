package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewConfirmDialog(t *testing.T) {
	d := NewConfirmDialog("Test Title", "Test message")

	if d.Title != "Test Title" {
		t.Errorf("expected title 'Test Title', got %q", d.Title)
	}
	if d.ConfirmLabel != " Confirm " {
		t.Errorf("expected default confirm label ' Confirm ', got %q", d.ConfirmLabel)
	}
	if d.Danger {
		t.Error("plain confirm dialog should not be danger styled")
	}
	if d.Width != ModalWidthMedium {
		t.Errorf("expected width %d, got %d", ModalWidthMedium, d.Width)
	}
}

func TestDeleteDialogRender(t *testing.T) {
	d := NewDeleteDialog("Delete note", "Are you sure you want to delete this note?")
	output := d.ToModal().Render(80, 24, nil)

	for _, want := range []string{"Delete note", "Are you sure", "Delete", "Cancel"} {
		if !strings.Contains(output, want) {
			t.Errorf("render should contain %q", want)
		}
	}
	if strings.Contains(output, "Tab to switch") {
		t.Error("render should not include modal hint line")
	}
}

func TestConfirmDialogActions(t *testing.T) {
	m := NewDeleteDialog("Delete note", "Sure?").ToModal()
	m.Render(80, 24, nil)

	action, _ := m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if action != ActionCancel {
		t.Errorf("enter should hit the focused cancel button first, got %q", action)
	}

	m.SetFocus(ActionConfirm)
	action, _ = m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if action != ActionConfirm {
		t.Errorf("expected confirm action, got %q", action)
	}

	action, _ = m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if action != ActionConfirm {
		t.Errorf("y should confirm, got %q", action)
	}
	action, _ = m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if action != ActionCancel {
		t.Errorf("esc should cancel, got %q", action)
	}
}
