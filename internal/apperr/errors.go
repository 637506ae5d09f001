// Package apperr classifies failures so the CLI can pick an exit status.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind string

// Error kinds
const (
	KindResourceUnavailable Kind = "RESOURCE_UNAVAILABLE"
	KindResourceExhaustion  Kind = "RESOURCE_EXHAUSTION"
	KindInvalidArgument     Kind = "INVALID_ARGUMENT"
	KindPersistenceFailure  Kind = "PERSISTENCE_FAILURE"
)

// Exit statuses
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error wrapping support
func (e *Error) Unwrap() error {
	return e.Err
}

// ResourceUnavailable reports a missing, empty or unreadable resource.
func ResourceUnavailable(err error, format string, args ...any) *Error {
	return &Error{Kind: KindResourceUnavailable, Message: fmt.Sprintf(format, args...), Err: err}
}

// ResourceExhaustion reports an allocation failure.
func ResourceExhaustion(err error, format string, args ...any) *Error {
	return &Error{Kind: KindResourceExhaustion, Message: fmt.Sprintf(format, args...), Err: err}
}

// InvalidArgument reports malformed CLI usage.
func InvalidArgument(err error) *Error {
	if err == nil {
		return &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	}
	return &Error{Kind: KindInvalidArgument, Err: err}
}

// PersistenceFailure reports a failure to write or read the score log.
func PersistenceFailure(err error, format string, args ...any) *Error {
	return &Error{Kind: KindPersistenceFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first classified error in the chain, or "".
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if IsKind(err, KindInvalidArgument) {
		return ExitUsage
	}
	return ExitFailure
}
