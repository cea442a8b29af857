// Package keymap maps keys to commands per UI context.
package keymap

import (
	"github.com/marcus/jotter/internal/ui"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry holds bindings and user overrides.
type Registry struct {
	bindings  []Binding
	overrides map[string]string // command -> key
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[string]string)}
}

// RegisterBinding adds a binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.bindings = append(r.bindings, b)
}

// SetUserOverride rebinds command to key in every context that defines
// the command. The default keys for that command stop working.
func (r *Registry) SetUserOverride(command, key string) {
	if command == "" || key == "" {
		return
	}
	r.overrides[command] = key
}

// BindingsForContext returns the effective bindings of one context, with
// overrides applied.
func (r *Registry) BindingsForContext(context string) []Binding {
	var out []Binding
	overridden := make(map[string]bool)
	for _, b := range r.bindings {
		if b.Context != context {
			continue
		}
		if key, ok := r.overrides[b.Command]; ok {
			if !overridden[b.Command] {
				out = append(out, Binding{Key: key, Command: b.Command, Context: context})
				overridden[b.Command] = true
			}
			continue
		}
		out = append(out, b)
	}
	return out
}

// Lookup returns the command bound to key in context, falling back to the
// global context.
func (r *Registry) Lookup(key, context string) (string, bool) {
	for _, ctx := range []string{context, ContextGlobal} {
		for _, b := range r.BindingsForContext(ctx) {
			if b.Key == key {
				return b.Command, true
			}
		}
	}
	return "", false
}

// Shortcuts returns key to command for a context, for modal shortcuts.
func (r *Registry) Shortcuts(context string) map[string]string {
	out := make(map[string]string)
	for _, b := range r.BindingsForContext(context) {
		if _, dup := out[b.Key]; !dup {
			out[b.Key] = b.Command
		}
	}
	return out
}

// Hints returns the footer hints for context, using the first key of each
// command.
func (r *Registry) Hints(context string) []ui.Hint {
	keys := make(map[string]string)
	for _, b := range r.BindingsForContext(context) {
		if _, ok := keys[b.Command]; !ok {
			keys[b.Command] = b.Key
		}
	}
	var hints []ui.Hint
	for _, spec := range hintSpecs[context] {
		if key, ok := keys[spec.command]; ok {
			hints = append(hints, ui.Hint{Key: key, Label: spec.label})
		}
	}
	return hints
}
