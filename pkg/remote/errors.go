package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced by the store. Match with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInvalid    = errors.New("invalid")
	ErrTransient  = errors.New("transient")
	ErrUnexpected = errors.New("unexpected response")
)

// Error is a failed store call.
type Error struct {
	Op     string
	Status int
	Kind   error
	// ExistingID is set on name conflicts when the store reports which
	// document already holds the name.
	ExistingID string
	Message    string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, msg)
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// ConflictID returns the id of the document that caused a name conflict.
func ConflictID(err error) (string, bool) {
	var re *Error
	if !errors.As(err, &re) || re.Kind != ErrConflict || re.ExistingID == "" {
		return "", false
	}
	return re.ExistingID, true
}

func kindOf(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return ErrInvalid
	case status >= 500:
		return ErrTransient
	}
	return ErrUnexpected
}
