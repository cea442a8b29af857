package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/jotter/internal/note"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "notes.db"), Options{Driver: DriverPureGo})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// clock returns a store clock advancing one second per call.
func clock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func groceries() note.Fields {
	return note.Fields{Title: "Groceries", Description: "Milk, eggs", Category: note.CategoryPersonal, Color: note.DefaultColor}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "x.db"), Options{Driver: "postgres"})
	assert.ErrorContains(t, err, "unknown sqlite driver")
}

func TestCreateAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Create(ctx, groceries())
	require.NoError(t, err)
	assert.Regexp(t, `^nt-[0-9a-f]{8}$`, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
	assert.True(t, n.UpdatedAt.IsZero())

	notes, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, n.ID, notes[0].ID)
	assert.Equal(t, "Groceries", notes[0].Title)
	assert.Equal(t, note.CategoryPersonal, notes[0].Category)
	assert.True(t, n.CreatedAt.Equal(notes[0].CreatedAt))
	assert.True(t, notes[0].UpdatedAt.IsZero())
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)
	notes, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestListOrdersByLastTouch(t *testing.T) {
	s := newTestStore(t)
	s.now = clock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	a, err := s.Create(ctx, groceries())
	require.NoError(t, err)
	b, err := s.Create(ctx, groceries())
	require.NoError(t, err)
	c, err := s.Create(ctx, groceries())
	require.NoError(t, err)

	title := "touched"
	_, err = s.Update(ctx, a.ID, note.Patch{Title: &title})
	require.NoError(t, err)

	notes, err := s.List(ctx)
	require.NoError(t, err)
	ids := []string{notes[0].ID, notes[1].ID, notes[2].ID}
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids)
}

func TestUpdateFullAndSparse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	n, err := s.Create(ctx, groceries())
	require.NoError(t, err)

	full := note.Fields{Title: "Hardware", Description: "Screws", Category: note.CategoryTodo, Color: "#43e97b"}
	updated, err := s.Update(ctx, n.ID, full.Patch())
	require.NoError(t, err)
	assert.Equal(t, "Hardware", updated.Title)
	assert.Equal(t, note.Color("#43e97b"), updated.Color)
	assert.True(t, updated.Modified())

	cat := note.CategoryIdeas
	sparse, err := s.Update(ctx, n.ID, note.Patch{Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Hardware", sparse.Title)
	assert.Equal(t, "Screws", sparse.Description)
	assert.Equal(t, note.CategoryIdeas, sparse.Category)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, sparse.Title, got.Title)
	assert.Equal(t, sparse.Category, got.Category)
	assert.True(t, sparse.UpdatedAt.Equal(got.UpdatedAt))
}

func TestUnknownIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "nt-missing", groceries().Patch())
	var se *note.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "update", se.Op)
	assert.ErrorIs(t, err, note.ErrNotFound)

	err = s.Delete(ctx, "nt-missing")
	assert.ErrorIs(t, err, note.ErrNotFound)

	_, err = s.Get(ctx, "nt-missing")
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestDeleteIsSoftAndRestorable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	n, err := s.Create(ctx, groceries())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, n.ID))
	notes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	// deleting twice reports not found
	assert.ErrorIs(t, s.Delete(ctx, n.ID), note.ErrNotFound)
	_, err = s.Update(ctx, n.ID, groceries().Patch())
	assert.ErrorIs(t, err, note.ErrNotFound)

	restored, err := s.Restore(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, restored.ID)

	notes, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	_, err = s.Restore(ctx, n.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestActionLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	n, err := s.Create(ctx, groceries())
	require.NoError(t, err)

	title := "Groceries for Sunday"
	_, err = s.Update(ctx, n.ID, note.Patch{Title: &title})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, n.ID))

	actions, err := s.Actions(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, ActionCreate, actions[0].Type)
	assert.Empty(t, actions[0].Previous)
	assert.Equal(t, ActionUpdate, actions[1].Type)
	assert.Equal(t, ActionDelete, actions[2].Type)
	assert.Empty(t, actions[2].New)

	var prev, next note.Note
	require.NoError(t, json.Unmarshal([]byte(actions[1].Previous), &prev))
	require.NoError(t, json.Unmarshal([]byte(actions[1].New), &next))
	assert.Equal(t, "Groceries", prev.Title)
	assert.Equal(t, title, next.Title)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	s, err := Open(path, Options{Driver: DriverPureGo})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), groceries())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, Options{Driver: DriverPureGo})
	require.NoError(t, err)
	defer s.Close()
	notes, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, groceries())
	var se *note.StoreError
	assert.ErrorAs(t, err, &se)
}

func TestWatchSeesOtherConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	s, err := Open(path, Options{Driver: DriverPureGo})
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Watch(ctx)
	require.NoError(t, err)

	other, err := Open(path, Options{Driver: DriverPureGo})
	require.NoError(t, err)
	defer other.Close()
	_, err = other.Create(context.Background(), groceries())
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change notification")
	}
}

func TestPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	keep, err := s.Create(ctx, groceries())
	require.NoError(t, err)
	gone, err := s.Create(ctx, groceries())
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, gone.ID))

	removed, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Restore(ctx, gone.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)
	_, err = s.Get(ctx, keep.ID)
	assert.NoError(t, err)

	actions, err := s.Actions(ctx, gone.ID)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	last := actions[2]
	assert.Equal(t, ActionPurge, last.Type)
	assert.Contains(t, last.Previous, gone.ID)
	assert.Empty(t, last.New)

	removed, err = s.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
