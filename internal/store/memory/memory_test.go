package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/jotter/internal/note"
)

func TestSeedAndList(t *testing.T) {
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(
		note.Note{ID: "a", Title: "old", CreatedAt: old},
		note.Note{Title: "no id", CreatedAt: old.Add(time.Hour)},
	)

	notes, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "no id", notes[0].Title)
	assert.NotEmpty(t, notes[0].ID)
	assert.Equal(t, "a", notes[1].ID)
}

func TestCRUDAndRestore(t *testing.T) {
	s := New()
	ctx := context.Background()

	n, err := s.Create(ctx, note.Fields{Title: "t", Description: "d", Category: note.CategoryIdeas})
	require.NoError(t, err)
	assert.Len(t, n.ID, 36)

	color := note.Color("#a8edea")
	updated, err := s.Update(ctx, n.ID, note.Patch{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, color, updated.Color)
	assert.Equal(t, "t", updated.Title)
	assert.False(t, updated.UpdatedAt.IsZero())

	require.NoError(t, s.Delete(ctx, n.ID))
	assert.ErrorIs(t, s.Delete(ctx, n.ID), note.ErrNotFound)

	restored, err := s.Restore(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, restored)

	_, err = s.Update(ctx, "nope", note.Patch{})
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestCanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Create(ctx, note.Fields{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentCreates(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(context.Background(), note.Fields{Title: "x", Description: "y", Category: note.CategoryOther})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	notes, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, notes, 20)
}
