package session

import (
	"errors"
	"fmt"
)

var (
	// ErrModeMismatch is returned when a mutation is issued in a mode that
	// does not own the state it touches.
	ErrModeMismatch = errors.New("operation not available in current mode")

	// ErrInvalidMode is returned for an unknown mode name.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrUnknownCommand is returned by Handle for a nil or foreign command.
	ErrUnknownCommand = errors.New("unknown command")
)

// ModeError reports which mode an operation needed.
type ModeError struct {
	Op       string
	Required Mode
	Current  Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("%s requires %s mode (current: %s)", e.Op, e.Required, e.Current)
}

func (e *ModeError) Unwrap() error { return ErrModeMismatch }
