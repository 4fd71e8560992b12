package app

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownConfirmation = errors.New("delete confirmation not found")
	ErrSharingDisabled     = errors.New("sharing is not configured")
)

// ValidationError is reported before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ActionError is a store failure of a user action. Its message is generic;
// the cause is kept for logging and errors.Is.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("error %s, please try again", e.Action)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
