package ui

import (
	"github.com/marcus/jotter/internal/modal"
)

// Modal widths shared by jotter dialogs.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 64
)

// Dialog actions.
const (
	ActionConfirm = "confirm"
	ActionCancel  = modal.ActionCancel
)

// ConfirmDialog is a yes/no prompt. Cancel is listed first and focused, so
// Enter alone never confirms a destructive action.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Danger       bool
	Width        int
	// Shortcuts maps single keys to ActionConfirm or ActionCancel.
	Shortcuts map[string]string
}

// NewConfirmDialog creates a dialog with default labels.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		Width:        ModalWidthMedium,
		Shortcuts:    map[string]string{"y": ActionConfirm, "n": ActionCancel},
	}
}

// NewDeleteDialog creates the danger-styled prompt shown before deleting.
func NewDeleteDialog(title, message string) *ConfirmDialog {
	d := NewConfirmDialog(title, message)
	d.ConfirmLabel = " Delete "
	d.Danger = true
	return d
}

// ToModal builds the modal.
func (d *ConfirmDialog) ToModal() *modal.Modal {
	opts := []modal.Option{
		modal.WithWidth(d.Width),
		modal.WithHints(false),
	}
	var confirmOpts []modal.ButtonOption
	if d.Danger {
		opts = append(opts, modal.WithVariant(modal.VariantDanger))
		confirmOpts = append(confirmOpts, modal.BtnDanger())
	}
	for key, action := range d.Shortcuts {
		opts = append(opts, modal.WithShortcut(key, action))
	}

	return modal.New(d.Title, opts...).
		AddSection(modal.Text(d.Message)).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(d.CancelLabel, ActionCancel),
			modal.Btn(d.ConfirmLabel, ActionConfirm, confirmOpts...),
		))
}
