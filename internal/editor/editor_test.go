package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/jotter/internal/note"
)

type createCall struct {
	Fields note.Fields
}

type updateCall struct {
	ID    string
	Patch note.Patch
}

// fakeStore records calls and returns canned results.
type fakeStore struct {
	mu        sync.Mutex
	creates   []createCall
	updates   []updateCall
	deletes   []string
	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeStore) List(context.Context) ([]note.Note, error) { return nil, nil }

func (f *fakeStore) Create(_ context.Context, fields note.Fields) (note.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, createCall{Fields: fields})
	if f.createErr != nil {
		return note.Note{}, f.createErr
	}
	return note.New("new-1", fields, time.Now()), nil
}

func (f *fakeStore) Update(_ context.Context, id string, p note.Patch) (note.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{ID: id, Patch: p})
	if f.updateErr != nil {
		return note.Note{}, f.updateErr
	}
	n := note.Note{ID: id}
	p.Apply(&n)
	n.UpdatedAt = time.Now()
	return n, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

// settle runs cmd and feeds its result back, returning the emitted message.
func settle(t *testing.T, e *Editor, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	out := e.Update(cmd())
	if out == nil {
		return nil
	}
	return out()
}

func sampleNote() note.Note {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return note.Note{
		ID:          "42",
		Title:       "Standup",
		Description: "Talk about the release",
		Category:    note.CategoryWork,
		Color:       "#4facfe",
		CreatedAt:   created,
	}
}

func TestPresentDerivesDraft(t *testing.T) {
	e := New(&fakeStore{})
	n := sampleNote()

	require.NoError(t, e.Present(ModeEdit, &n))
	d, ok := e.Draft()
	require.True(t, ok)
	assert.Equal(t, Draft{Title: "Standup", Description: "Talk about the release", Category: note.CategoryWork, Color: "#4facfe"}, d)
	assert.Equal(t, Editing{Draft: d, SourceID: "42"}, e.State())

	require.NoError(t, e.Present(ModeView, &n))
	assert.Equal(t, Viewing{Note: n}, e.State())
	_, ok = e.Draft()
	assert.False(t, ok)
}

func TestPresentEditColorFallsBackToDefault(t *testing.T) {
	e := New(&fakeStore{})
	n := sampleNote()
	n.Color = ""
	require.NoError(t, e.PresentEdit(n))
	d, _ := e.Draft()
	assert.Equal(t, note.DefaultColor, d.Color)
}

func TestPresentCreateAlwaysBlank(t *testing.T) {
	e := New(&fakeStore{})
	require.NoError(t, e.PresentCreate())
	require.NoError(t, e.UpdateField(FieldTitle, "leftover"))
	require.NoError(t, e.UpdateField(FieldColor, "#fee140"))

	n := sampleNote()
	require.NoError(t, e.Present(ModeCreate, &n))
	d, ok := e.Draft()
	require.True(t, ok)
	assert.Equal(t, Blank(), d)
	assert.Equal(t, Draft{Category: note.CategoryPersonal, Color: note.DefaultColor}, d)
	assert.IsType(t, Creating{}, e.State())
}

func TestPresentRequiresNote(t *testing.T) {
	e := New(&fakeStore{})
	assert.ErrorIs(t, e.Present(ModeView, nil), ErrNoteRequired)
	assert.ErrorIs(t, e.Present(ModeEdit, nil), ErrNoteRequired)
	assert.False(t, e.IsOpen())
	assert.Error(t, e.Present(Mode(9), nil))
}

func TestPresentClearsPreviousError(t *testing.T) {
	e := New(&fakeStore{})
	require.NoError(t, e.PresentCreate())
	assert.Nil(t, e.Submit())
	require.Error(t, e.Err())

	require.NoError(t, e.PresentCreate())
	assert.NoError(t, e.Err())
}

func TestUpdateFieldIgnoredWhileViewing(t *testing.T) {
	e := New(&fakeStore{})
	n := sampleNote()
	require.NoError(t, e.PresentView(n))

	require.NoError(t, e.UpdateField(FieldTitle, "changed"))
	require.NoError(t, e.UpdateField(FieldCategory, "Ideas"))
	assert.Equal(t, Viewing{Note: n}, e.State())

	e.Close()
	require.NoError(t, e.UpdateField(FieldTitle, "changed"))
	assert.Equal(t, Closed{}, e.State())
}

func TestUpdateFieldPreservesOthers(t *testing.T) {
	e := New(&fakeStore{})
	require.NoError(t, e.PresentEdit(sampleNote()))
	require.NoError(t, e.UpdateField(FieldCategory, string(note.CategoryIdeas)))

	d, _ := e.Draft()
	assert.Equal(t, Draft{Title: "Standup", Description: "Talk about the release", Category: note.CategoryIdeas, Color: "#4facfe"}, d)
}

func TestUpdateFieldRejectsUnknownValues(t *testing.T) {
	e := New(&fakeStore{})
	require.NoError(t, e.PresentCreate())

	assert.ErrorIs(t, e.UpdateField(FieldCategory, "Shopping"), ErrInvalidValue)
	assert.ErrorIs(t, e.UpdateField(FieldColor, "#000000"), ErrInvalidValue)
	assert.ErrorIs(t, e.UpdateField(Field(99), "x"), ErrInvalidValue)

	d, _ := e.Draft()
	assert.Equal(t, Blank(), d)
}

func TestUpdateFieldClampsLength(t *testing.T) {
	e := New(&fakeStore{})
	require.NoError(t, e.PresentCreate())

	require.NoError(t, e.UpdateField(FieldTitle, strings.Repeat("ñ", note.MaxTitleLen+10)))
	require.NoError(t, e.UpdateField(FieldDescription, strings.Repeat("x", note.MaxDescriptionLen+1)))

	d, _ := e.Draft()
	assert.Equal(t, strings.Repeat("ñ", note.MaxTitleLen), d.Title)
	assert.Len(t, d.Description, note.MaxDescriptionLen)
}

func TestSelectPickers(t *testing.T) {
	e := New(&fakeStore{})
	require.NoError(t, e.PresentCreate())

	e.SelectCategory(3)
	e.SelectColor(2)
	e.SelectCategory(-1)
	e.SelectColor(len(note.Colors))

	d, _ := e.Draft()
	assert.Equal(t, note.Categories[3], d.Category)
	assert.Equal(t, note.Colors[2], d.Color)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name        string
		title, desc string
	}{
		{"empty title", "", "something"},
		{"blank description", "Title", "   "},
		{"both blank", " \t", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			e := New(store)
			require.NoError(t, e.PresentCreate())
			require.NoError(t, e.UpdateField(FieldTitle, tt.title))
			require.NoError(t, e.UpdateField(FieldDescription, tt.desc))

			assert.Nil(t, e.Submit())
			assert.False(t, e.Loading())
			assert.Empty(t, store.creates)

			var ve *note.ValidationError
			require.ErrorAs(t, e.Err(), &ve)
			assert.Equal(t, note.MsgRequiredFields, e.ErrMessage())
			assert.True(t, e.IsOpen())
		})
	}
}

func TestSubmitNoopWhileViewingOrClosed(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	assert.Nil(t, e.Submit())

	require.NoError(t, e.PresentView(sampleNote()))
	assert.Nil(t, e.Submit())
	assert.False(t, e.Loading())
	assert.Empty(t, store.updates)
}

func TestCreateScenario(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	require.NoError(t, e.Present(ModeCreate, nil))
	require.NoError(t, e.UpdateField(FieldTitle, "  Groceries "))
	require.NoError(t, e.UpdateField(FieldDescription, "Milk, eggs\n"))
	require.NoError(t, e.UpdateField(FieldCategory, "Personal"))
	require.NoError(t, e.UpdateField(FieldColor, "#667eea"))

	cmd := e.Submit()
	require.NotNil(t, cmd)
	assert.True(t, e.Loading())
	assert.Equal(t, "Saving...", e.SubmitLabel())

	msg := settle(t, e, cmd)
	require.Len(t, store.creates, 1)
	assert.Equal(t, note.Fields{Title: "Groceries", Description: "Milk, eggs", Category: "Personal", Color: "#667eea"}, store.creates[0].Fields)

	saved, ok := msg.(SavedMsg)
	require.True(t, ok, "expected SavedMsg, got %T", msg)
	assert.True(t, saved.Created)
	assert.Equal(t, "Groceries", saved.Note.Title)
	assert.Equal(t, Closed{}, e.State())
	assert.False(t, e.Loading())
	_, ok = e.Draft()
	assert.False(t, ok)
}

func TestEditRoundTripSendsAllFields(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	n := sampleNote()
	require.NoError(t, e.Present(ModeEdit, &n))
	require.NoError(t, e.UpdateField(FieldCategory, "Todo"))

	msg := settle(t, e, e.Submit())
	require.IsType(t, SavedMsg{}, msg)
	assert.False(t, msg.(SavedMsg).Created)

	require.Len(t, store.updates, 1)
	call := store.updates[0]
	assert.Equal(t, "42", call.ID)
	require.NotNil(t, call.Patch.Title)
	require.NotNil(t, call.Patch.Description)
	require.NotNil(t, call.Patch.Category)
	require.NotNil(t, call.Patch.Color)
	assert.Equal(t, n.Title, *call.Patch.Title)
	assert.Equal(t, n.Description, *call.Patch.Description)
	assert.Equal(t, note.CategoryTodo, *call.Patch.Category)
	assert.Equal(t, n.Color, *call.Patch.Color)
}

func TestSubmitSingleFlight(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	require.NoError(t, e.PresentEdit(sampleNote()))

	first := e.Submit()
	require.NotNil(t, first)
	assert.Nil(t, e.Submit())
	assert.Nil(t, e.Submit())

	settle(t, e, first)
	assert.Len(t, store.updates, 1)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	store := &fakeStore{updateErr: note.Wrap("update", "42", errors.New("database is locked"))}
	e := New(store)
	require.NoError(t, e.PresentEdit(sampleNote()))
	require.NoError(t, e.UpdateField(FieldTitle, "Standup notes"))
	before, _ := e.Draft()

	msg := settle(t, e, e.Submit())
	assert.Nil(t, msg)
	assert.False(t, e.Loading())
	assert.True(t, e.IsOpen())
	assert.Equal(t, "database is locked", e.ErrMessage())

	after, ok := e.Draft()
	require.True(t, ok)
	assert.Equal(t, before, after)

	// retry sends the same fields
	store.updateErr = nil
	msg = settle(t, e, e.Submit())
	require.IsType(t, SavedMsg{}, msg)
	require.Len(t, store.updates, 2)
	assert.Equal(t, store.updates[0], store.updates[1])
}

func TestSubmitFailureGenericMessage(t *testing.T) {
	store := &fakeStore{createErr: errors.New("")}
	e := New(store)
	require.NoError(t, e.PresentCreate())
	require.NoError(t, e.UpdateField(FieldTitle, "t"))
	require.NoError(t, e.UpdateField(FieldDescription, "d"))

	settle(t, e, e.Submit())
	assert.Equal(t, note.MsgGeneric, e.ErrMessage())
}

func TestCancelIgnoredWhileLoading(t *testing.T) {
	e := New(&fakeStore{})
	require.NoError(t, e.PresentEdit(sampleNote()))

	cmd := e.Submit()
	require.NotNil(t, cmd)
	assert.Nil(t, e.Cancel())
	assert.ErrorIs(t, e.PresentCreate(), ErrBusy)
	assert.True(t, e.IsOpen())

	settle(t, e, cmd)
	assert.False(t, e.IsOpen())
}

func TestCancelDiscardsDraft(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	require.NoError(t, e.PresentCreate())
	require.NoError(t, e.UpdateField(FieldTitle, "draft"))

	cmd := e.Cancel()
	require.NotNil(t, cmd)
	assert.Equal(t, ClosedMsg{}, cmd())
	assert.Equal(t, Closed{}, e.State())
	assert.Empty(t, store.creates)

	assert.Nil(t, e.Cancel(), "cancel when closed emits nothing")
}

func TestDeleteScenario(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("boom")}
	e := New(store)
	n := note.Note{ID: "42", Title: "X", Description: "Y", Category: note.CategoryOther}
	require.NoError(t, e.Present(ModeView, &n))

	require.True(t, e.RequestDelete())
	assert.True(t, e.ConfirmingDelete())

	msg := settle(t, e, e.ConfirmDelete())
	assert.Equal(t, []string{"42"}, store.deletes)
	assert.Equal(t, Closed{}, e.State())
	assert.False(t, e.ConfirmingDelete())

	deleted, ok := msg.(DeletedMsg)
	require.True(t, ok)
	assert.Equal(t, "42", deleted.ID)
	assert.EqualError(t, deleted.Err, "boom")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	require.NoError(t, e.PresentView(sampleNote()))

	assert.Nil(t, e.ConfirmDelete())

	require.True(t, e.RequestDelete())
	e.CancelDelete()
	assert.False(t, e.ConfirmingDelete())
	assert.Nil(t, e.ConfirmDelete())
	assert.IsType(t, Viewing{}, e.State())
	assert.Empty(t, store.deletes)
}

func TestDeleteOnlyWhileViewing(t *testing.T) {
	e := New(&fakeStore{})
	assert.False(t, e.RequestDelete())
	require.NoError(t, e.PresentEdit(sampleNote()))
	assert.False(t, e.RequestDelete())
	require.NoError(t, e.PresentCreate())
	assert.False(t, e.RequestDelete())
}

func TestRequestEdit(t *testing.T) {
	e := New(&fakeStore{})
	n := sampleNote()
	require.NoError(t, e.PresentView(n))

	cmd := e.RequestEdit()
	require.NotNil(t, cmd)
	assert.Equal(t, EditRequestedMsg{Note: n}, cmd())
	assert.False(t, e.IsOpen())

	assert.Nil(t, e.RequestEdit())
}

func TestUpdateIgnoresForeignResults(t *testing.T) {
	a := New(&fakeStore{})
	b := New(&fakeStore{})
	require.NoError(t, a.PresentCreate())
	require.NoError(t, a.UpdateField(FieldTitle, "t"))
	require.NoError(t, a.UpdateField(FieldDescription, "d"))

	msg := a.Submit()()
	assert.Nil(t, b.Update(msg))
	assert.True(t, a.Loading())
	assert.NotNil(t, a.Update(msg))
}

func TestDetails(t *testing.T) {
	e := New(&fakeStore{})
	_, ok := e.Details("", time.Now())
	assert.False(t, ok)

	n := sampleNote()
	n.Color = ""
	require.NoError(t, e.PresentView(n))
	d, ok := e.Details("2006-01-02", time.Now())
	require.True(t, ok)
	assert.Equal(t, note.DefaultColor, d.Color)
	assert.Equal(t, n.CreatedAt.Local().Format("2006-01-02"), d.Created)
	assert.Empty(t, d.Updated)

	n.UpdatedAt = n.CreatedAt.Add(48 * time.Hour)
	require.NoError(t, e.PresentView(n))
	d, _ = e.Details("2006-01-02", time.Now())
	assert.Equal(t, n.UpdatedAt.Local().Format("2006-01-02"), d.Updated)

	n.CreatedAt = time.Time{}
	n.UpdatedAt = time.Time{}
	require.NoError(t, e.PresentView(n))
	d, _ = e.Details("", time.Now())
	assert.Equal(t, note.MsgUnknownDate, d.Created)
}

func TestHeadings(t *testing.T) {
	e := New(&fakeStore{})
	assert.Empty(t, e.Title())

	require.NoError(t, e.PresentCreate())
	assert.Equal(t, "New note", e.Title())
	assert.Equal(t, "Create", e.SubmitLabel())

	require.NoError(t, e.PresentEdit(sampleNote()))
	assert.Equal(t, "Edit note", e.Title())
	assert.Equal(t, "Save", e.SubmitLabel())

	require.NoError(t, e.PresentView(sampleNote()))
	assert.Equal(t, "Note details", e.Title())
	assert.Equal(t, "Review the details of your note", e.Subtitle())
}
