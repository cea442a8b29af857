package keymap

// Contexts.
const (
	ContextGlobal = "global"
	ContextList   = "notes-list"
	ContextView   = "note-view"
	ContextForm   = "note-form"
	ContextDelete = "note-delete"
)

// Commands.
const (
	CmdQuit         = "quit"
	CmdToggleFooter = "toggle-footer"
	CmdCursorDown   = "cursor-down"
	CmdCursorUp     = "cursor-up"
	CmdCursorTop    = "cursor-top"
	CmdCursorBottom = "cursor-bottom"
	CmdView         = "view"
	CmdNew          = "new"
	CmdEdit         = "edit"
	CmdDelete       = "delete"
	CmdReload       = "reload"
	CmdRestore      = "restore"
	CmdCopy         = "copy"
	CmdClose        = "close"
	CmdSubmit       = "submit"
	CmdCancel       = "cancel"
	CmdConfirm      = "confirm"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal},
		{Key: "ctrl+h", Command: CmdToggleFooter, Context: ContextGlobal},

		// Note list
		{Key: "q", Command: CmdQuit, Context: ContextList},
		{Key: "j", Command: CmdCursorDown, Context: ContextList},
		{Key: "down", Command: CmdCursorDown, Context: ContextList},
		{Key: "k", Command: CmdCursorUp, Context: ContextList},
		{Key: "up", Command: CmdCursorUp, Context: ContextList},
		{Key: "g", Command: CmdCursorTop, Context: ContextList},
		{Key: "home", Command: CmdCursorTop, Context: ContextList},
		{Key: "G", Command: CmdCursorBottom, Context: ContextList},
		{Key: "end", Command: CmdCursorBottom, Context: ContextList},
		{Key: "enter", Command: CmdView, Context: ContextList},
		{Key: "n", Command: CmdNew, Context: ContextList},
		{Key: "e", Command: CmdEdit, Context: ContextList},
		{Key: "r", Command: CmdReload, Context: ContextList},
		{Key: "u", Command: CmdRestore, Context: ContextList},

		// Note details modal
		{Key: "e", Command: CmdEdit, Context: ContextView},
		{Key: "d", Command: CmdDelete, Context: ContextView},
		{Key: "y", Command: CmdCopy, Context: ContextView},
		{Key: "q", Command: CmdClose, Context: ContextView},

		// Create and edit form
		{Key: "ctrl+s", Command: CmdSubmit, Context: ContextForm},

		// Delete prompt
		{Key: "y", Command: CmdConfirm, Context: ContextDelete},
		{Key: "n", Command: CmdCancel, Context: ContextDelete},
	}
}

// hintSpecs orders the footer hints per context.
var hintSpecs = map[string][]struct{ command, label string }{
	ContextList: {
		{CmdNew, "new"},
		{CmdView, "view"},
		{CmdEdit, "edit"},
		{CmdRestore, "undo delete"},
		{CmdReload, "reload"},
		{CmdQuit, "quit"},
	},
	ContextView: {
		{CmdEdit, "edit"},
		{CmdDelete, "delete"},
		{CmdCopy, "copy"},
		{CmdClose, "close"},
	},
	ContextForm: {
		{CmdSubmit, "save"},
	},
	ContextDelete: {
		{CmdConfirm, "delete"},
		{CmdCancel, "keep"},
	},
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
