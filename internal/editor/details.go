package editor

import (
	"time"

	"github.com/marcus/jotter/internal/note"
)

// Details is the read-only data shown while viewing.
type Details struct {
	ID          string
	Title       string
	Description string
	Category    note.Category
	Color       note.Color
	Created     string
	Updated     string // empty unless the note was modified
}

// Details returns the view data for the current note. ok is false unless
// viewing.
func (e *Editor) Details(layout string, now time.Time) (d Details, ok bool) {
	v, ok := e.state.(Viewing)
	if !ok {
		return Details{}, false
	}
	n := v.Note
	d = Details{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Category:    n.Category,
		Color:       n.ColorOrDefault(),
		Created:     note.FormatDate(n.CreatedAt, layout, now),
	}
	if n.Modified() {
		d.Updated = note.FormatDate(n.UpdatedAt, layout, now)
	}
	return d, true
}

// Note returns the viewed note.
func (e *Editor) Note() (note.Note, bool) {
	v, ok := e.state.(Viewing)
	return v.Note, ok
}

// Title is the modal heading for the current state.
func (e *Editor) Title() string {
	switch e.state.(type) {
	case Creating:
		return "New note"
	case Editing:
		return "Edit note"
	case Viewing:
		return "Note details"
	}
	return ""
}

// Subtitle is the line under the heading.
func (e *Editor) Subtitle() string {
	switch e.state.(type) {
	case Creating:
		return "Create a new note"
	case Editing:
		return "Change the details of your note"
	case Viewing:
		return "Review the details of your note"
	}
	return ""
}

// SubmitLabel is the label of the submit button.
func (e *Editor) SubmitLabel() string {
	if e.loading {
		return "Saving..."
	}
	if _, ok := e.state.(Creating); ok {
		return "Create"
	}
	return "Save"
}
