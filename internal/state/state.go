package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent UI state between runs.
type State struct {
	SelectedNoteID string `json:"selectedNoteId,omitempty"`
	// HideFooter is the user's last footer toggle. It overrides ui.showFooter.
	HideFooter *bool `json:"hideFooter,omitempty"`
	// LastDeletedID lets the next run still offer restore.
	LastDeletedID string `json:"lastDeletedId,omitempty"`
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "jotter"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	mu.Lock()
	path = filepath.Join(dir, "state.json")
	mu.Unlock()
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk. It is a no-op before Init.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil || path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func update(fn func(*State)) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	fn(current)
	mu.Unlock()
	return Save()
}

// GetSelectedNoteID returns the note selected when jotter last exited.
func GetSelectedNoteID() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.SelectedNoteID
}

// SetSelectedNoteID saves the selected note.
func SetSelectedNoteID(id string) error {
	return update(func(s *State) { s.SelectedNoteID = id })
}

// GetShowFooter returns the saved footer toggle, or def when never toggled.
func GetShowFooter(def bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil || current.HideFooter == nil {
		return def
	}
	return !*current.HideFooter
}

// SetShowFooter saves the footer toggle.
func SetShowFooter(show bool) error {
	hide := !show
	return update(func(s *State) { s.HideFooter = &hide })
}

// GetLastDeletedID returns the most recently deleted note.
func GetLastDeletedID() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.LastDeletedID
}

// SetLastDeletedID saves the most recently deleted note. Empty clears it.
func SetLastDeletedID(id string) error {
	return update(func(s *State) { s.LastDeletedID = id })
}
