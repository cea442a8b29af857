// Package diskstore stores each note as a JSON document on disk using diskv.
package diskstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/store/watch"
)

const bucket = "notes"

// record is the stored document. Deleted notes keep their record with
// DeletedAt set.
type record struct {
	note.Note
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Store is a note.Store backed by a diskv directory.
type Store struct {
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

// Open returns a store rooted at basePath.
func Open(basePath string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      0, // other processes write the same directory
		}),
		basePath: basePath,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// keyToPath maps "notes-<id>" to notes/<id>.
func keyToPath(key string) *diskv.PathKey {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) == 1 {
		return &diskv.PathKey{FileName: parts[0]}
	}
	return &diskv.PathKey{Path: []string{parts[0]}, FileName: parts[1]}
}

func pathToKey(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return pk.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pk.Path, "-"), pk.FileName)
}

func keyFor(id string) string {
	return bucket + "-" + id
}

func (s *Store) read(key string) (record, error) {
	var r record
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, note.ErrNotFound
		}
		return r, err
	}
	if err := json.Unmarshal(val, &r); err != nil {
		return r, fmt.Errorf("decode %s: %w", key, err)
	}
	return r, nil
}

func (s *Store) write(r record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}
	return s.d.Write(keyFor(r.ID), b)
}

// live returns the record for id unless it is missing or deleted.
func (s *Store) live(id string) (record, error) {
	r, err := s.read(keyFor(id))
	if err != nil {
		return r, err
	}
	if r.DeletedAt != nil {
		return r, note.ErrNotFound
	}
	return r, nil
}

// List returns live notes, most recently touched first. Unreadable documents
// are logged and skipped.
func (s *Store) List(ctx context.Context) ([]note.Note, error) {
	notes := []note.Note{}
	for key := range s.d.KeysPrefix(bucket+"-", ctx.Done()) {
		r, err := s.read(key)
		if err != nil {
			slog.Warn("skipping unreadable note", "key", key, "err", err)
			continue
		}
		if r.DeletedAt == nil {
			notes = append(notes, r.Note)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, note.Wrap("list", "", err)
	}
	sortNotes(notes)
	return notes, nil
}

func sortNotes(notes []note.Note) {
	sort.Slice(notes, func(i, j int) bool {
		ti, tj := notes[i].LastTouched(), notes[j].LastTouched()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return notes[i].ID < notes[j].ID
	})
}

// Create writes a new note.
func (s *Store) Create(ctx context.Context, f note.Fields) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, note.Wrap("create", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := note.New(uuid.NewString(), f, s.now())
	if err := s.write(record{Note: n}); err != nil {
		return note.Note{}, note.Wrap("create", "", err)
	}
	return n, nil
}

// Update applies p to a live note.
func (s *Store) Update(ctx context.Context, id string, p note.Patch) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, note.Wrap("update", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.live(id)
	if err != nil {
		return note.Note{}, note.Wrap("update", id, err)
	}
	p.Apply(&r.Note)
	r.UpdatedAt = s.now()
	if err := s.write(r); err != nil {
		return note.Note{}, note.Wrap("update", id, err)
	}
	return r.Note, nil
}

// Delete marks a live note deleted.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return note.Wrap("delete", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.live(id)
	if err != nil {
		return note.Wrap("delete", id, err)
	}
	now := s.now()
	r.DeletedAt = &now
	return note.Wrap("delete", id, s.write(r))
}

// Restore clears the deleted mark.
func (s *Store) Restore(ctx context.Context, id string) (note.Note, error) {
	if err := ctx.Err(); err != nil {
		return note.Note{}, note.Wrap("restore", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(keyFor(id))
	if err == nil && r.DeletedAt == nil {
		err = note.ErrNotFound
	}
	if err != nil {
		return note.Note{}, note.Wrap("restore", id, err)
	}
	r.DeletedAt = nil
	if err := s.write(r); err != nil {
		return note.Note{}, note.Wrap("restore", id, err)
	}
	return r.Note, nil
}

// Purge erases deleted notes from disk and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []record
	for key := range s.d.KeysPrefix(bucket+"-", ctx.Done()) {
		if r, err := s.read(key); err == nil && r.DeletedAt != nil {
			deleted = append(deleted, r)
		}
	}

	removed := 0
	for _, r := range deleted {
		if err := s.d.Erase(keyFor(r.ID)); err != nil {
			return removed, note.Wrap("purge", r.ID, err)
		}
		removed++
	}
	return removed, nil
}

// Watch reports changes under the store directory.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	return watch.Dir(ctx, s.basePath, watch.Options{Recursive: true})
}
