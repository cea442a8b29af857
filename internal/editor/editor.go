package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/jotter/internal/note"
)

// DefaultTimeout bounds each store call.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNoteRequired is returned when view or edit is requested without a note.
	ErrNoteRequired = errors.New("editor: note required for view and edit")
	// ErrBusy is returned when presenting while a store call is in flight.
	ErrBusy = errors.New("editor: store call in flight")
	// ErrInvalidValue is returned for values outside a field's domain.
	ErrInvalidValue = errors.New("editor: invalid field value")
)

// SavedMsg reports a successful create or update. The modal is already closed.
type SavedMsg struct {
	Note    note.Note
	Created bool
}

// DeletedMsg reports a settled delete. The modal is closed whatever Err holds.
type DeletedMsg struct {
	ID  string
	Err error
}

// ClosedMsg reports that the user dismissed the modal.
type ClosedMsg struct{}

// EditRequestedMsg asks the caller to present n in edit mode.
type EditRequestedMsg struct {
	Note note.Note
}

// submitResultMsg and deleteResultMsg carry store outcomes back to Update.
type submitResultMsg struct {
	owner   *Editor
	note    note.Note
	created bool
	err     error
}

type deleteResultMsg struct {
	owner *Editor
	id    string
	err   error
}

// Editor is the note modal state machine. It is not safe for concurrent use;
// all methods run on the bubbletea update loop.
type Editor struct {
	store   note.Store
	timeout time.Duration
	logger  *slog.Logger

	state    State
	loading  bool
	err      error
	deleting bool // confirm prompt shown
}

// Option configures an Editor.
type Option func(*Editor)

// WithTimeout sets the per-call store timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns a closed editor bound to store.
func New(store note.Store, opts ...Option) *Editor {
	e := &Editor{
		store:   store,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		state:   Closed{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current state.
func (e *Editor) State() State { return e.state }

// IsOpen reports whether the modal is shown.
func (e *Editor) IsOpen() bool {
	_, closed := e.state.(Closed)
	return !closed
}

// Loading reports whether a store call is in flight.
func (e *Editor) Loading() bool { return e.loading }

// Err returns the error from the last failed submit or validation.
func (e *Editor) Err() error { return e.err }

// ErrMessage returns the user-facing text for Err, or "".
func (e *Editor) ErrMessage() string {
	if e.err == nil {
		return ""
	}
	return note.Message(e.err)
}

// ConfirmingDelete reports whether the delete prompt is shown.
func (e *Editor) ConfirmingDelete() bool { return e.deleting }

// Draft returns the draft when editing or creating.
func (e *Editor) Draft() (Draft, bool) {
	switch s := e.state.(type) {
	case Editing:
		return s.Draft, true
	case Creating:
		return s.Draft, true
	}
	return Draft{}, false
}

// Present opens the modal in mode. A note is required for view and edit and
// ignored for create.
func (e *Editor) Present(mode Mode, n *note.Note) error {
	switch mode {
	case ModeCreate:
		return e.PresentCreate()
	case ModeView, ModeEdit:
		if n == nil {
			return ErrNoteRequired
		}
		if mode == ModeView {
			return e.PresentView(*n)
		}
		return e.PresentEdit(*n)
	}
	return fmt.Errorf("editor: unknown mode %d", mode)
}

// PresentView opens n read-only.
func (e *Editor) PresentView(n note.Note) error {
	return e.open(Viewing{Note: n})
}

// PresentEdit opens a draft copied from n.
func (e *Editor) PresentEdit(n note.Note) error {
	return e.open(Editing{Draft: FromNote(n), SourceID: n.ID})
}

// PresentCreate opens a blank draft.
func (e *Editor) PresentCreate() error {
	return e.open(Creating{Draft: Blank()})
}

func (e *Editor) open(s State) error {
	if e.loading {
		return ErrBusy
	}
	e.state = s
	e.err = nil
	e.deleting = false
	return nil
}

// UpdateField replaces one draft field. It is a no-op unless a draft exists.
func (e *Editor) UpdateField(f Field, value string) error {
	switch s := e.state.(type) {
	case Editing:
		d, err := s.Draft.with(f, value)
		if err != nil {
			return err
		}
		s.Draft = d
		e.state = s
	case Creating:
		d, err := s.Draft.with(f, value)
		if err != nil {
			return err
		}
		s.Draft = d
		e.state = s
	}
	return nil
}

// SelectCategory picks note.Categories[i]. Out of range indexes are ignored.
func (e *Editor) SelectCategory(i int) {
	if i < 0 || i >= len(note.Categories) {
		return
	}
	_ = e.UpdateField(FieldCategory, string(note.Categories[i]))
}

// SelectColor picks note.Colors[i]. Out of range indexes are ignored.
func (e *Editor) SelectColor(i int) {
	if i < 0 || i >= len(note.Colors) {
		return
	}
	_ = e.UpdateField(FieldColor, string(note.Colors[i]))
}

// Submit validates the draft and issues create or update. It returns nil when
// there is nothing to send: viewing, closed, already in flight or invalid.
func (e *Editor) Submit() tea.Cmd {
	if e.loading {
		return nil
	}

	var (
		fields   note.Fields
		sourceID string
		creating bool
	)
	switch s := e.state.(type) {
	case Editing:
		fields, sourceID = s.Draft.Fields(), s.SourceID
	case Creating:
		fields, creating = s.Draft.Fields(), true
	default:
		return nil
	}

	if err := fields.Validate(); err != nil {
		e.err = err
		return nil
	}

	e.err = nil
	e.loading = true
	store, timeout := e.store, e.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			n   note.Note
			err error
		)
		if creating {
			n, err = store.Create(ctx, fields)
		} else {
			n, err = store.Update(ctx, sourceID, fields.Patch())
		}
		return submitResultMsg{owner: e, note: n, created: creating, err: err}
	}
}

// RequestDelete shows the confirm prompt. Only valid while viewing.
func (e *Editor) RequestDelete() bool {
	if _, ok := e.state.(Viewing); !ok || e.loading {
		return false
	}
	e.deleting = true
	return true
}

// CancelDelete hides the confirm prompt and stays on the note.
func (e *Editor) CancelDelete() {
	if !e.loading {
		e.deleting = false
	}
}

// ConfirmDelete issues the delete. The modal closes once it settles,
// successful or not.
func (e *Editor) ConfirmDelete() tea.Cmd {
	v, ok := e.state.(Viewing)
	if !ok || !e.deleting || e.loading {
		return nil
	}

	e.loading = true
	store, timeout, id := e.store, e.timeout, v.Note.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteResultMsg{owner: e, id: id, err: store.Delete(ctx, id)}
	}
}

// RequestEdit closes the view and asks the caller to reopen in edit mode.
func (e *Editor) RequestEdit() tea.Cmd {
	v, ok := e.state.(Viewing)
	if !ok || e.loading {
		return nil
	}
	e.reset()
	n := v.Note
	return func() tea.Msg { return EditRequestedMsg{Note: n} }
}

// Cancel discards the draft and closes without touching the store. Ignored
// while a store call is in flight.
func (e *Editor) Cancel() tea.Cmd {
	if e.loading || !e.IsOpen() {
		return nil
	}
	e.reset()
	return func() tea.Msg { return ClosedMsg{} }
}

// Close is Cancel without the notification.
func (e *Editor) Close() {
	if !e.loading {
		e.reset()
	}
}

func (e *Editor) reset() {
	e.state = Closed{}
	e.err = nil
	e.deleting = false
}

// Update settles store results. Messages for other editors are ignored.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case submitResultMsg:
		if msg.owner != e {
			return nil
		}
		e.loading = false
		if msg.err != nil {
			e.err = msg.err
			e.logger.Warn("note save failed", "created", msg.created, "err", msg.err)
			return nil
		}
		e.reset()
		saved := SavedMsg{Note: msg.note, Created: msg.created}
		return func() tea.Msg { return saved }

	case deleteResultMsg:
		if msg.owner != e {
			return nil
		}
		e.loading = false
		if msg.err != nil {
			e.logger.Warn("note delete failed", "id", msg.id, "err", msg.err)
		}
		e.reset()
		deleted := DeletedMsg{ID: msg.id, Err: msg.err}
		return func() tea.Msg { return deleted }
	}
	return nil
}
