package search

import (
	"errors"
	"fmt"
)

// Kind classifies the failures a command can report to its caller.
type Kind uint8

const (
	KindArity            Kind = iota + 1 // A required argument is missing.
	KindPattern                          // The regular expression does not compile.
	KindUpstreamProtocol                 // The store answered with an unexpected reply shape.
	KindUpstream                         // The store failed to enumerate keys.
	KindUnknownCommand                   // The command name is not registered.
	KindPermission                       // A write command was sent to a read-only registry.
)

func (k Kind) String() string {
	switch k {
	case KindArity:
		return "ArityError"
	case KindPattern:
		return "PatternError"
	case KindUpstreamProtocol:
		return "UpstreamProtocolError"
	case KindUpstream:
		return "UpstreamError"
	case KindUnknownCommand:
		return "UnknownCommandError"
	case KindPermission:
		return "PermissionError"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error is returned for every failure that aborts a command.
// Failures to read or delete a single key are never returned as errors.
type Error struct {
	Kind Kind   // The failure class
	Msg  string // Human readable description
	Err  error  // The underlying error (optional)
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Detail()
}

// Detail returns the error message without the kind prefix.
func (e *Error) Detail() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}

// IsKind reports whether err is (or wraps) a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
