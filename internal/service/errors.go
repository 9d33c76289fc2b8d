package service

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; the API layer maps each kind to an HTTP status.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error is a domain error with a message fit for the client
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func invalidArgument(format string, args ...interface{}) error {
	return newError(ErrInvalidArgument, format, args...)
}

func notFound(what string) error {
	return newError(ErrNotFound, "%s not found", what)
}
