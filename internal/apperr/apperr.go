package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Internal Kind = iota
	Invalid
	Forbidden
	Conflict
	NotFound
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a user-facing failure. Msg is shown to the user as is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error   { return New(Invalid, format, args...) }
func Forbiddenf(format string, args ...any) error { return New(Forbidden, format, args...) }
func Conflictf(format string, args ...any) error  { return New(Conflict, format, args...) }
func NotFoundf(format string, args ...any) error  { return New(NotFound, format, args...) }

// KindOf returns Internal for errors that were not raised through this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
