package lifecycle

import (
	"errors"
	"fmt"
)

// Kind classifies a failure shown to the user.
type Kind string

const (
	LoadFailed     Kind = "LoadFailed"
	SaveFailed     Kind = "SaveFailed"
	NameConflict   Kind = "NameConflict"
	NameRequired   Kind = "NameRequired"
	FolderRequired Kind = "FolderRequired"
	ImportInvalid  Kind = "ImportInvalid"
	OutOfRange     Kind = "OutOfRange"
)

var (
	// ErrBusy is returned for commands issued while a load or save is in
	// flight. The command is dropped, not queued.
	ErrBusy = errors.New("busy")
	// ErrNothingToSave is returned when the document matches its baseline.
	ErrNothingToSave = errors.New("no unsaved changes")
	ErrWrongPhase    = errors.New("not allowed in this state")
	ErrStaleLoad     = errors.New("superseded by a newer load")
)

// Error is a user-facing failure with its cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the short text rendered in alerts.
func (e *Error) Message() string {
	switch e.Kind {
	case LoadFailed:
		return "Failed to load"
	case SaveFailed:
		return "Failed to save"
	case NameConflict:
		return "A document with this name already exists"
	case NameRequired:
		return "Name is required"
	case FolderRequired:
		return "Choose a folder before saving"
	case ImportInvalid:
		if e.Err != nil {
			return "Invalid file: " + e.Err.Error()
		}
		return "Invalid file"
	}
	return string(e.Kind)
}

// KindOf returns the kind of a lifecycle error, or "" for anything else.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
