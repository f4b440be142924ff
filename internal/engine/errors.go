/*
PURPOSE:
  Error taxonomy for backend calls.
  Every client failure is an *Error whose Kind is one of the sentinels, so
  callers can branch with errors.Is.

USAGE:
  if errors.Is(err, engine.ErrNetwork) { ... }
*/

package engine

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the client. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNetwork    = errors.New("network error")
	ErrServer     = errors.New("server error")
	ErrParse      = errors.New("parse error")
)

// Error is a failed API call.
type Error struct {
	Kind    error // one of the Err* kinds above
	Status  int   // HTTP status, 0 when no response was obtained
	Message string
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func networkError(err error) *Error {
	return &Error{Kind: ErrNetwork, Message: fmt.Sprintf("Network/Connection Error: %v", err), Err: err}
}

func serverError(status int, msg string) *Error {
	return &Error{Kind: ErrServer, Status: status, Message: msg}
}

func parseError(status int, err error) *Error {
	return &Error{Kind: ErrParse, Status: status, Message: fmt.Sprintf("invalid JSON response: %v", err), Err: err}
}
