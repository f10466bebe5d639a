package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the transport can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is returned by every service operation that fails for a known reason.
// Message is safe to show to callers; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func errValidation(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

func errNotFound(message string) *Error {
	return newError(KindNotFound, message)
}

func errConflict(message string) *Error {
	return newError(KindConflict, message)
}

func errForbidden() *Error {
	return newError(KindAuthorization, "insufficient permissions")
}

func errInternal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a service error of the given kind.
func IsKind(err error, kind Kind) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Kind != KindInternal {
		return svcErr.Message
	}
	return "internal server error"
}
