// Package streamerr defines StreamLib's closed error-kind taxonomy:
// every fallible core call returns either a value or one of these
// kinds, so callers never need to pattern-match on string contents.
package streamerr

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of error categories the core reports.
type Kind string

const (
	Configuration     Kind = "Configuration"
	GpuError          Kind = "GpuError"
	PortError         Kind = "PortError"
	LinkNotFound      Kind = "LinkNotFound"
	LinkAlreadyExists Kind = "LinkAlreadyExists"
	ProcessorNotFound Kind = "ProcessorNotFound"
	InvalidLink       Kind = "InvalidLink"
	Runtime           Kind = "Runtime"
	Config            Kind = "Config"
	NotSupported      Kind = "NotSupported"
	TextureError      Kind = "TextureError"
)

// Error is the concrete error type carrying a Kind, a human-readable
// message, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with a formatted message.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind wrapping cause.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain (the one KindOf
// reports) has the given Kind; deeper *Error values are not examined.
func Is(err error, k Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == k
	}
	return false
}

// KindOf extracts the Kind from err, if it (or something it wraps) is
// a *Error.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
