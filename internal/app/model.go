// Package app is the root bubbletea model: the note list, the note modal and
// the footer.
package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/jotter/internal/config"
	"github.com/marcus/jotter/internal/editor"
	"github.com/marcus/jotter/internal/keymap"
	"github.com/marcus/jotter/internal/modal"
	"github.com/marcus/jotter/internal/mouse"
	"github.com/marcus/jotter/internal/note"
	"github.com/marcus/jotter/internal/state"
)

// Layout constants.
const (
	minWidth     = 40
	minHeight    = 12
	headerHeight = 2 // title line + rule
	footerHeight = 1
	itemHeight   = 5 // title, two description lines, date, gap
)

// ModalKind identifies which modal is open. The editor state decides it;
// this is only the rendering and input-routing view of that state.
type ModalKind int

const (
	ModalNone   ModalKind = iota // list has input
	ModalView                    // note details
	ModalForm                    // create or edit
	ModalDelete                  // delete confirmation
)

// activeModal maps the editor state onto a ModalKind.
func (m *Model) activeModal() ModalKind {
	switch m.editor.State().(type) {
	case editor.Viewing:
		if m.editor.ConfirmingDelete() {
			return ModalDelete
		}
		return ModalView
	case editor.Editing, editor.Creating:
		return ModalForm
	}
	return ModalNone
}

// activeContext returns the keymap context for the active modal.
func (m *Model) activeContext() string {
	switch m.activeModal() {
	case ModalView:
		return keymap.ContextView
	case ModalForm:
		return keymap.ContextForm
	case ModalDelete:
		return keymap.ContextDelete
	}
	return keymap.ContextList
}

// noteForm holds the bubbles inputs behind the create and edit modal. It is
// a pointer so modal sections keep addressing the same inputs across model
// copies.
type noteForm struct {
	title    textinput.Model
	desc     textarea.Model
	category int
	color    int
}

func newNoteForm(d editor.Draft) *noteForm {
	ti := textinput.New()
	ti.Placeholder = "Enter note title"
	ti.CharLimit = note.MaxTitleLen
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic) // blink messages are not forwarded
	ti.SetValue(d.Title)

	ta := textarea.New()
	ta.Placeholder = "Enter note description"
	ta.CharLimit = note.MaxDescriptionLen
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.SetValue(d.Description)

	f := &noteForm{title: ti, desc: ta}
	for i, c := range note.Categories {
		if c == d.Category {
			f.category = i
		}
	}
	for i, c := range note.Colors {
		if c == d.Color {
			f.color = i
		}
	}
	return f
}

// toast is the message shown above the footer.
type toast struct {
	message string
	isError bool
	seq     int
}

// Model is the root Bubble Tea model for jotter.
type Model struct {
	// Configuration
	cfg    *config.Config
	keymap *keymap.Registry
	logger *slog.Logger
	now    func() time.Time

	// Notes
	store    note.Store
	editor   *editor.Editor
	notes    []note.Note
	cursor   int
	offset   int    // first visible item
	selected string // ID under the cursor, survives reloads
	loading  bool
	loadErr  error

	// Modal
	form     *noteForm
	modal    *modal.Modal
	modalKey string
	mouse    *mouse.Handler
	markdown *markdownRenderer

	// Store change subscription
	watchCtx    context.Context
	stopWatch   context.CancelFunc
	changes     <-chan struct{}
	writeClipFn func(string) error

	// UI state
	width      int
	height     int
	ready      bool
	showFooter bool
	toast      *toast
	toastSeq   int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now, used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.writeClipFn = write }
}

// New creates a model over store. A nil cfg means defaults.
func New(cfg *config.Config, store note.Store, opts ...Option) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for command, key := range cfg.Keymap.Overrides {
		km.SetUserOverride(command, key)
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	m := Model{
		cfg:         cfg,
		keymap:      km,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		store:       store,
		selected:    state.GetSelectedNoteID(),
		loading:     true, // Init loads
		mouse:       mouse.NewHandler(),
		markdown:    &markdownRenderer{},
		watchCtx:    watchCtx,
		stopWatch:   stopWatch,
		writeClipFn: clipboard.WriteAll,
		showFooter:  state.GetShowFooter(cfg.UI.ShowFooter),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.editor = editor.New(store,
		editor.WithTimeout(cfg.Store.Timeout),
		editor.WithLogger(m.logger),
	)
	return m
}

// Init loads the list and subscribes to store changes.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.reload()}
	if w, ok := m.store.(note.Watcher); ok {
		cmds = append(cmds, startWatchCmd(m.watchCtx, w))
	}
	return tea.Batch(cmds...)
}

// reload issues a List call.
func (m *Model) reload() tea.Cmd {
	m.loading = true
	return loadNotesCmd(m.store, m.storeTimeout())
}

// storeTimeout bounds list and restore calls.
func (m *Model) storeTimeout() time.Duration {
	if m.cfg.Store.Timeout > 0 {
		return m.cfg.Store.Timeout
	}
	return editor.DefaultTimeout
}

// Shutdown stops the store subscription.
func (m Model) Shutdown() {
	m.stopWatch()
}

// Editor exposes the note editor.
func (m Model) Editor() *editor.Editor { return m.editor }

// Notes returns the loaded notes.
func (m Model) Notes() []note.Note { return m.notes }

// SelectedNote returns the note under the cursor.
func (m Model) SelectedNote() (note.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(m.notes) {
		return note.Note{}, false
	}
	return m.notes[m.cursor], true
}

// visibleItems is how many list items fit on screen.
func (m *Model) visibleItems() int {
	h := m.height - headerHeight
	if m.showFooter {
		h -= footerHeight
	}
	return max(1, h/itemHeight)
}

// toastDuration falls back to two seconds.
func (m *Model) toastDuration() time.Duration {
	if m.cfg.UI.ToastDuration > 0 {
		return m.cfg.UI.ToastDuration
	}
	return 2 * time.Second
}
