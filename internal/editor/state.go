// Package editor implements the note modal as a state machine over an
// injected note.Store.
package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/marcus/jotter/internal/note"
)

// Mode selects which state Present opens.
type Mode int

const (
	ModeView Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeView:
		return "view"
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	}
	return "unknown"
}

// State is one of Closed, Viewing, Editing or Creating.
type State interface {
	isState()
}

// Closed means the modal is not shown.
type Closed struct{}

// Viewing shows a note read-only.
type Viewing struct {
	Note note.Note
}

// Editing holds a draft of an existing note.
type Editing struct {
	Draft    Draft
	SourceID string
}

// Creating holds a draft of a note not yet stored.
type Creating struct {
	Draft Draft
}

func (Closed) isState()   {}
func (Viewing) isState()  {}
func (Editing) isState()  {}
func (Creating) isState() {}

// Draft is the mutable copy of a note's editable fields.
type Draft struct {
	Title       string
	Description string
	Category    note.Category
	Color       note.Color
}

// Blank returns the template used for new notes.
func Blank() Draft {
	return Draft{
		Category: note.Categories[0],
		Color:    note.Colors[0],
	}
}

// FromNote copies the editable fields of n.
func FromNote(n note.Note) Draft {
	return Draft{
		Title:       n.Title,
		Description: n.Description,
		Category:    n.Category,
		Color:       n.ColorOrDefault(),
	}
}

// Fields returns the draft as a trimmed store payload.
func (d Draft) Fields() note.Fields {
	return note.Fields{
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Color:       d.Color,
	}.Trimmed()
}

// Field identifies one editable draft field.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldCategory
	FieldColor
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	case FieldCategory:
		return "category"
	case FieldColor:
		return "color"
	}
	return "unknown"
}

// with returns a copy of d with one field replaced.
func (d Draft) with(f Field, value string) (Draft, error) {
	switch f {
	case FieldTitle:
		d.Title = clampRunes(value, note.MaxTitleLen)
	case FieldDescription:
		d.Description = clampRunes(value, note.MaxDescriptionLen)
	case FieldCategory:
		c := note.Category(value)
		if !c.Valid() {
			return d, ErrInvalidValue
		}
		d.Category = c
	case FieldColor:
		c := note.Color(value)
		if !c.Valid() {
			return d, ErrInvalidValue
		}
		d.Color = c
	default:
		return d, ErrInvalidValue
	}
	return d, nil
}

func clampRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
