package note

import (
	"errors"
	"fmt"
)

// User-facing messages.
const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgGeneric        = "Something went wrong"
)

// ErrNotFound is returned by stores for unknown note IDs.
var ErrNotFound = errors.New("note not found")

// ValidationError is a local input error. It never reaches a store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failed store call.
type StoreError struct {
	Op  string // list, create, update, delete
	ID  string
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s note %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s notes: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap returns err wrapped in a StoreError, or nil.
func Wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, ID: id, Err: err}
}

// Message extracts the text to show the user for err.
func Message(err error) string {
	if err == nil {
		return MsgGeneric
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Message == "" {
			return MsgRequiredFields
		}
		return ve.Message
	}
	var se *StoreError
	if errors.As(err, &se) {
		if se.Err == nil || se.Err.Error() == "" {
			return MsgGeneric
		}
		if errors.Is(se.Err, ErrNotFound) {
			return "Note no longer exists"
		}
		return se.Err.Error()
	}
	if err.Error() == "" {
		return MsgGeneric
	}
	return err.Error()
}
