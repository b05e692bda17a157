package apperrors

import (
	"errors"
)

// appError is the concrete Error implementation. Derivation keeps a pointer
// to the kind it came from in base, which is what makes errors.Is walk the
// whole chain.
type appError struct {
	msg        string  // primary error message
	base       error   // kind this error was derived from
	wrapped    []error // additional wrapped errors
	statuscode int     // HTTP status code, 0 when not set
}

// New creates a root-level error kind with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// Error returns the error message.
func (e *appError) Error() string {
	return e.msg
}

// Unwrap returns the kind this error was derived from.
func (e *appError) Unwrap() error {
	return e.base
}

// UnwrapAll returns the wrapped errors in the order they were attached.
func (e *appError) UnwrapAll() []error {
	return e.wrapped
}

// New derives a fresh kind from the current one. The derived kind inherits
// the status code and matches the parent under errors.Is.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// Msg creates an error with a new message that wraps the original.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		wrapped:    append([]error{e}, e.wrapped...),
		statuscode: e.statuscode,
	}
}

// MsgErr creates an error with a new message wrapping the original and any
// additional errors.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:        msg,
		base:       e,
		wrapped:    append([]error{e}, errs...),
		statuscode: e.statuscode,
	}
}

// Err attaches additional errors to the current one, keeping its message.
func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:        e.msg,
		base:       e,
		wrapped:    append([]error{e}, errs...),
		statuscode: e.statuscode,
	}
}

// SetStatusCode returns a copy with the given HTTP status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

// StatusCode returns the recorded HTTP status code.
func (e *appError) StatusCode() int {
	return e.statuscode
}

// Is reports whether target matches this error, its derivation chain, or any
// wrapped error.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrapped {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
