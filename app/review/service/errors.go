package service

import (
	"errors"
	"fmt"
)

// Storage failures are logged at the call site and collapsed to ErrDatabase;
// the caller gets no storage detail.
var ErrDatabase = errors.New("database error")

// Kind is the machine-checkable class of a domain error.
type Kind string

const (
	KindAccessDenied Kind = "access_denied"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
)

// Error is a terminal domain error: nothing is retried internally and the
// kind is stable across releases.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func AccessDenied(format string, args ...interface{}) error {
	return &Error{Kind: KindAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the domain kind of err, or "" for storage and other
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
