// Package note defines the note entity, its enumerations and the store
// contract every backend implements.
package note

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field length limits, in runes.
const (
	MaxTitleLen       = 50
	MaxDescriptionLen = 500
)

// Category groups notes. The zero value is not a member; use Categories[0].
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategoryWork     Category = "Work"
	CategoryIdeas    Category = "Ideas"
	CategoryTodo     Category = "Todo"
	CategoryOther    Category = "Other"
)

// Categories lists the selectable categories in picker order.
var Categories = []Category{
	CategoryPersonal,
	CategoryWork,
	CategoryIdeas,
	CategoryTodo,
	CategoryOther,
}

// Valid reports whether c is a member of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Color is a hex accent color from the fixed palette.
type Color string

// DefaultColor is used when a note carries no color.
const DefaultColor Color = "#667eea"

// Colors is the palette in picker order. The first entry is DefaultColor.
var Colors = []Color{
	DefaultColor,
	"#f093fb",
	"#4facfe",
	"#43e97b",
	"#fa709a",
	"#fee140",
	"#a8edea",
	"#ff9a9e",
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Note is a persisted note. UpdatedAt stays zero until the note is modified.
type Note struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    Category  `json:"category" yaml:"category"`
	Color       Color     `json:"color,omitempty" yaml:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// ColorOrDefault returns the note color, falling back to DefaultColor.
func (n Note) ColorOrDefault() Color {
	if n.Color == "" {
		return DefaultColor
	}
	return n.Color
}

// Modified reports whether the note was updated after creation.
func (n Note) Modified() bool {
	return !n.UpdatedAt.IsZero() && !n.UpdatedAt.Equal(n.CreatedAt)
}

// LastTouched returns UpdatedAt if set, else CreatedAt.
func (n Note) LastTouched() time.Time {
	if n.UpdatedAt.IsZero() {
		return n.CreatedAt
	}
	return n.UpdatedAt
}

// Fields is the payload for creating a note.
type Fields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Color       Color    `json:"color,omitempty"`
}

// Trimmed returns a copy with surrounding whitespace removed from the text fields.
func (f Fields) Trimmed() Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// Validate checks the required fields and enumerations. Text fields are
// expected to be trimmed already.
func (f Fields) Validate() error {
	switch {
	case f.Title == "" || f.Description == "":
		field := "title"
		if f.Title != "" {
			field = "description"
		}
		return &ValidationError{Field: field, Message: MsgRequiredFields}
	case utf8.RuneCountInString(f.Title) > MaxTitleLen:
		return &ValidationError{Field: "title", Message: "Title is too long"}
	case utf8.RuneCountInString(f.Description) > MaxDescriptionLen:
		return &ValidationError{Field: "description", Message: "Description is too long"}
	case !f.Category.Valid():
		return &ValidationError{Field: "category", Message: "Unknown category"}
	case f.Color != "" && !f.Color.Valid():
		return &ValidationError{Field: "color", Message: "Unknown color"}
	}
	return nil
}

// Patch returns a patch that overwrites all four fields.
func (f Fields) Patch() Patch {
	return Patch{
		Title:       &f.Title,
		Description: &f.Description,
		Category:    &f.Category,
		Color:       &f.Color,
	}
}

// Patch is a sparse update. Nil fields are left unchanged.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Color       *Color    `json:"color,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Color == nil
}

// Apply copies the set fields onto n.
func (p Patch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
}

// New builds a note from fields. Backends assign the ID.
func New(id string, f Fields, now time.Time) Note {
	return Note{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Color:       f.Color,
		CreatedAt:   now,
	}
}
