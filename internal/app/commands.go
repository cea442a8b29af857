package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/jotter/internal/note"
)

// Message types for tea.Cmd
type (
	// notesLoadedMsg carries the result of a List call.
	notesLoadedMsg struct {
		notes []note.Note
		err   error
	}

	// watchStartedMsg carries the change channel of a watching store.
	watchStartedMsg struct {
		changes <-chan struct{}
		err     error
	}

	// storeChangedMsg reports an external change to the store.
	storeChangedMsg struct{}

	// restoredMsg carries the result of restoring a deleted note.
	restoredMsg struct {
		note note.Note
		err  error
	}

	// copiedMsg carries the result of a clipboard write.
	copiedMsg struct {
		err error
	}
)

// loadNotesCmd lists the store's notes.
func loadNotesCmd(store note.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		notes, err := store.List(ctx)
		return notesLoadedMsg{notes: notes, err: err}
	}
}

// startWatchCmd subscribes to store changes. The subscription lives until ctx
// is cancelled.
func startWatchCmd(ctx context.Context, w note.Watcher) tea.Cmd {
	return func() tea.Msg {
		changes, err := w.Watch(ctx)
		return watchStartedMsg{changes: changes, err: err}
	}
}

// waitForChangeCmd blocks until the next change. It returns nil once the
// channel closes, which ends the loop.
func waitForChangeCmd(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// restoreCmd undoes the soft delete of id.
func restoreCmd(r note.Restorer, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		n, err := r.Restore(ctx, id)
		return restoredMsg{note: n, err: err}
	}
}

// copyCmd writes text to the system clipboard.
func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}
