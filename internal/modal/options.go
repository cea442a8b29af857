package modal

const (
	// DefaultWidth is the modal width when WithWidth is not given.
	DefaultWidth = 56
	// MinModalWidth keeps buttons on one line.
	MinModalWidth = 30
	// ModalPadding is border(2) + horizontal padding(4).
	ModalPadding = 6
)

// Variant selects the border and title color.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the preferred width. It is clamped to the screen.
func WithWidth(w int) Option {
	return func(m *Modal) {
		if w > 0 {
			m.width = w
		}
	}
}

// WithVariant sets the color variant.
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints toggles the keyboard hint line.
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action Enter returns when the focused
// element has no action of its own.
func WithPrimaryAction(id string) Option {
	return func(m *Modal) { m.primaryAction = id }
}

// WithCloseOnBackdropClick controls whether clicking outside cancels.
func WithCloseOnBackdropClick(close bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = close }
}

// WithShortcut maps a single key to an action. Shortcuts fire only when
// the focused section does not consume the key, so they are safe next to
// buttons but not next to text inputs.
func WithShortcut(key, action string) Option {
	return func(m *Modal) {
		if m.shortcuts == nil {
			m.shortcuts = make(map[string]string)
		}
		m.shortcuts[key] = action
	}
}

// WithInitialFocus focuses id on the first render that contains it.
func WithInitialFocus(id string) Option {
	return func(m *Modal) { m.initialFocus = id }
}
