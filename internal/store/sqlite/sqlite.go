// Package sqlite stores notes in a SQLite database with soft deletes and an
// action log of every mutation.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/store/watch"
)

// Driver names accepted by Open.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// ActionType is the kind of mutation recorded in action_log.
type ActionType string

const (
	ActionCreate  ActionType = "create"
	ActionUpdate  ActionType = "update"
	ActionDelete  ActionType = "delete"
	ActionRestore ActionType = "restore"
	ActionPurge   ActionType = "purge"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Options configures Open.
type Options struct {
	// Driver is DriverCGO or DriverPureGo. Empty means DriverCGO.
	Driver string
	// SessionID is written to action_log. Empty means "jotter".
	SessionID string
}

// Store is a note.Store backed by SQLite.
type Store struct {
	db        *sql.DB
	path      string
	sessionID string
	now       func() time.Time
}

// Open opens or creates the database at path.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	driver := opts.Driver
	if driver == "" {
		driver = DriverCGO
	}
	dsn, err := dataSource(driver, path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer keeps WAL busy handling simple
	db.SetMaxOpenConns(1)

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = "jotter"
	}

	s := &Store{
		db:        db,
		path:      path,
		sessionID: sessionID,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func dataSource(driver, path string) (string, error) {
	switch driver {
	case DriverCGO:
		return path + "?_busy_timeout=5000&_journal_mode=WAL", nil
	case DriverPureGo:
		return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	}
	return "", fmt.Errorf("unknown sqlite driver %q", driver)
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT,
    deleted_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_notes_deleted ON notes(deleted_at);
CREATE TABLE IF NOT EXISTS action_log (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    action_type TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    previous_data TEXT,
    new_data TEXT,
    timestamp TEXT NOT NULL,
    undone INTEGER DEFAULT 0
);
`
	_, err := s.db.Exec(schema)
	return err
}

// generateID returns a random id with the given prefix and 8 hex chars.
func generateID(prefix string) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(b), nil
}

// List returns live notes, most recently touched first.
func (s *Store) List(ctx context.Context) ([]note.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, category, color, created_at, updated_at
		FROM notes
		WHERE deleted_at IS NULL
		ORDER BY COALESCE(updated_at, created_at) DESC, id`)
	if err != nil {
		return nil, note.Wrap("list", "", fmt.Errorf("query notes: %w", err))
	}
	defer rows.Close()

	notes := []note.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, note.Wrap("list", "", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, note.Wrap("list", "", err)
	}
	return notes, nil
}

// Get returns a live note by id.
func (s *Store) Get(ctx context.Context, id string) (note.Note, error) {
	n, err := s.get(ctx, s.db, id, false)
	return n, note.Wrap("get", id, err)
}

// Create inserts a note.
func (s *Store) Create(ctx context.Context, f note.Fields) (note.Note, error) {
	id, err := generateID("nt-")
	if err != nil {
		return note.Note{}, note.Wrap("create", "", fmt.Errorf("generate ID: %w", err))
	}
	n := note.New(id, f, s.now())

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (id, title, description, category, color, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, n.Title, n.Description, string(n.Category), string(n.Color),
			n.CreatedAt.Format(timeLayout))
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		return s.logAction(ctx, tx, ActionCreate, n.ID, nil, n)
	})
	if err != nil {
		return note.Note{}, note.Wrap("create", "", err)
	}
	return n, nil
}

// Update applies p to a live note.
func (s *Store) Update(ctx context.Context, id string, p note.Patch) (note.Note, error) {
	var updated note.Note
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		prev, err := s.get(ctx, tx, id, false)
		if err != nil {
			return err
		}
		updated = prev
		p.Apply(&updated)
		updated.UpdatedAt = s.now()

		_, err = tx.ExecContext(ctx, `
			UPDATE notes SET title = ?, description = ?, category = ?, color = ?, updated_at = ?
			WHERE id = ? AND deleted_at IS NULL`,
			updated.Title, updated.Description, string(updated.Category), string(updated.Color),
			updated.UpdatedAt.Format(timeLayout), id)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		return s.logAction(ctx, tx, ActionUpdate, id, prev, updated)
	})
	if err != nil {
		return note.Note{}, note.Wrap("update", id, err)
	}
	return updated, nil
}

// Delete soft-deletes a live note.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		prev, err := s.get(ctx, tx, id, false)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE notes SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
			s.now().Format(timeLayout), id)
		if err != nil {
			return fmt.Errorf("soft delete note: %w", err)
		}
		return s.logAction(ctx, tx, ActionDelete, id, prev, nil)
	})
	return note.Wrap("delete", id, err)
}

// Restore undoes a soft delete.
func (s *Store) Restore(ctx context.Context, id string) (note.Note, error) {
	var restored note.Note
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := s.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE notes SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
		if err != nil {
			return fmt.Errorf("restore note: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return fmt.Errorf("note %s is not deleted", id)
		}
		restored = n
		return s.logAction(ctx, tx, ActionRestore, id, nil, n)
	})
	if err != nil {
		return note.Note{}, note.Wrap("restore", id, err)
	}
	return restored, nil
}

// Purge erases soft-deleted notes and returns how many were removed. Each
// erased note gets a purge entry so its history ends there.
func (s *Store) Purge(ctx context.Context) (int, error) {
	removed := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ids, err := deletedIDs(ctx, tx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			prev, err := s.get(ctx, tx, id, true)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
				return fmt.Errorf("purge note: %w", err)
			}
			if err := s.logAction(ctx, tx, ActionPurge, id, prev, nil); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, note.Wrap("purge", "", err)
	}
	return removed, nil
}

func deletedIDs(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM notes WHERE deleted_at IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query deleted notes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted note: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Watch reports changes to the database files made by other processes.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	base := filepath.Base(s.path)
	return watch.Dir(ctx, filepath.Dir(s.path), watch.Options{
		Match: func(p string) bool {
			// matches the db, -wal and -shm files
			return strings.HasPrefix(filepath.Base(p), base)
		},
	})
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) get(ctx context.Context, q querier, id string, deleted bool) (note.Note, error) {
	cond := "deleted_at IS NULL"
	if deleted {
		cond = "deleted_at IS NOT NULL"
	}
	row := q.QueryRowContext(ctx, `
		SELECT id, title, description, category, color, created_at, updated_at
		FROM notes WHERE id = ? AND `+cond, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return note.Note{}, note.ErrNotFound
	}
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(sc scanner) (note.Note, error) {
	var (
		n               note.Note
		category, color string
		createdAt       string
		updatedAt       sql.NullString
	)
	if err := sc.Scan(&n.ID, &n.Title, &n.Description, &category, &color, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return n, err
		}
		return n, fmt.Errorf("scan note: %w", err)
	}
	n.Category = note.Category(category)
	n.Color = note.Color(color)
	n.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid && updatedAt.String != "" {
		n.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return n, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// logAction records a mutation with the before and after state as JSON.
func (s *Store) logAction(ctx context.Context, tx *sql.Tx, action ActionType, entityID string, prev, next any) error {
	prevData, err := marshalState(prev)
	if err != nil {
		return fmt.Errorf("marshal previous data: %w", err)
	}
	newData, err := marshalState(next)
	if err != nil {
		return fmt.Errorf("marshal new data: %w", err)
	}

	actionID, err := generateID("al-")
	if err != nil {
		return fmt.Errorf("generate action ID: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO action_log (id, session_id, action_type, entity_type, entity_id, previous_data, new_data, timestamp, undone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		actionID, s.sessionID, string(action), "notes", entityID, prevData, newData, s.now().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}

func marshalState(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// Action is one row of the action log.
type Action struct {
	ID       string
	Type     ActionType
	EntityID string
	Previous string
	New      string
}

// Actions returns the action log for a note, oldest first.
func (s *Store) Actions(ctx context.Context, entityID string) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action_type, entity_id, COALESCE(previous_data, ''), COALESCE(new_data, '')
		FROM action_log WHERE entity_id = ? ORDER BY timestamp, rowid`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query action log: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		var typ string
		if err := rows.Scan(&a.ID, &typ, &a.EntityID, &a.Previous, &a.New); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.Type = ActionType(typ)
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
