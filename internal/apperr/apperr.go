// Package apperr carries the error taxonomy shared by all services. Handlers
// translate kinds into HTTP statuses; services never touch the transport.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Validation   Kind = "validation_error"
	Conflict     Kind = "conflict_error"
	NotFound     Kind = "not_found_error"
	InvalidState Kind = "invalid_state_error"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return New(Validation, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return New(Conflict, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

func InvalidStatef(format string, args ...any) *Error {
	return New(InvalidState, format, args...)
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
