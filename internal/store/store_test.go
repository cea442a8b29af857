package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/jotter/internal/config"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/store/diskstore"
	"github.com/marcus/jotter/internal/store/memory"
	"github.com/marcus/jotter/internal/store/sqlite"
)

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.StoreConfig
		want any
	}{
		{"sqlite pure go", config.StoreConfig{Driver: config.DriverSQLitePureGo, Path: filepath.Join(dir, "n.db")}, &sqlite.Store{}},
		{"diskv", config.StoreConfig{Driver: config.DriverDiskv, Path: filepath.Join(dir, "notes")}, &diskstore.Store{}},
		{"memory", config.StoreConfig{Driver: config.DriverMemory}, &memory.Store{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			require.NoError(t, err)
			defer Close(s)
			assert.IsType(t, tt.want, s)

			_, err = s.List(context.Background())
			assert.NoError(t, err)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(config.StoreConfig{Driver: "postgres"})
	assert.ErrorContains(t, err, "unknown store driver")

	_, err = Open(config.StoreConfig{Driver: config.DriverDiskv})
	assert.Error(t, err)
}

// Every backend honors the same contract.
func TestBackendContract(t *testing.T) {
	dir := t.TempDir()
	backends := map[string]func() note.Store{
		"sqlite": func() note.Store {
			s, err := sqlite.Open(filepath.Join(dir, "contract.db"), sqlite.Options{Driver: sqlite.DriverPureGo})
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"diskv":  func() note.Store { return diskstore.Open(filepath.Join(dir, "contract")) },
		"memory": func() note.Store { return memory.New() },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open()
			ctx := context.Background()

			created, err := s.Create(ctx, note.Fields{Title: "t", Description: "d", Category: note.CategoryTodo})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.True(t, created.UpdatedAt.IsZero())

			cat := note.CategoryWork
			updated, err := s.Update(ctx, created.ID, note.Patch{Category: &cat})
			require.NoError(t, err)
			assert.Equal(t, "t", updated.Title)
			assert.Equal(t, cat, updated.Category)
			assert.False(t, updated.UpdatedAt.IsZero())

			_, err = s.Update(ctx, "missing", note.Patch{})
			assert.ErrorIs(t, err, note.ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "missing"), note.ErrNotFound)

			require.NoError(t, s.Delete(ctx, created.ID))
			notes, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, notes)

			r, ok := s.(note.Restorer)
			require.True(t, ok)
			_, err = r.Restore(ctx, created.ID)
			require.NoError(t, err)
			notes, err = s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, notes, 1)
		})
	}
}
