// Package memory is an in-process note store. Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marcus/jotter/internal/note"
)

var (
	_ note.Store    = (*Store)(nil)
	_ note.Restorer = (*Store)(nil)
)

// Store keeps notes in a map.
type Store struct {
	mu      sync.RWMutex
	notes   map[string]note.Note
	deleted map[string]note.Note
	now     func() time.Time
}

// New returns a store holding seed.
func New(seed ...note.Note) *Store {
	s := &Store{
		notes:   make(map[string]note.Note, len(seed)),
		deleted: make(map[string]note.Note),
		now:     time.Now,
	}
	for _, n := range seed {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		s.notes[n.ID] = n
	}
	return s
}

// List returns all notes, most recently touched first.
func (s *Store) List(ctx context.Context) ([]note.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, note.Wrap("list", "", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]note.Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool {
		ti, tj := notes[i].LastTouched(), notes[j].LastTouched()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// Create stores a note under a fresh UUID.
func (s *Store) Create(ctx context.Context, f note.Fields) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, note.Wrap("create", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := note.New(uuid.New().String(), f, s.now())
	s.notes[n.ID] = n
	return n, nil
}

// Update applies p to an existing note.
func (s *Store) Update(ctx context.Context, id string, p note.Patch) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, note.Wrap("update", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return note.Note{}, note.Wrap("update", id, note.ErrNotFound)
	}
	p.Apply(&n)
	n.UpdatedAt = s.now()
	s.notes[id] = n
	return n, nil
}

// Delete removes a note, keeping it for Restore.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return note.Wrap("delete", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return note.Wrap("delete", id, note.ErrNotFound)
	}
	delete(s.notes, id)
	s.deleted[id] = n
	return nil
}

// Restore brings back a deleted note.
func (s *Store) Restore(ctx context.Context, id string) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, note.Wrap("restore", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.deleted[id]
	if !ok {
		return note.Note{}, note.Wrap("restore", id, note.ErrNotFound)
	}
	delete(s.deleted, id)
	s.notes[id] = n
	return n, nil
}
