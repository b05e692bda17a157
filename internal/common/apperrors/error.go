// Package apperrors provides the error-kind infrastructure used across the
// client. Kinds are built as chains: a package declares a base error and
// derives concrete kinds from it with New, so callers can match any link of
// the chain with errors.Is. Errors optionally carry the HTTP status code
// that produced them.
package apperrors

// Error is the interface implemented by all client error kinds. It extends
// the standard error interface with derivation, wrapping, and status-code
// accessors. Methods return Error to support chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a new kind from the current one
	Msg(msg string) Error                  // new message, wraps the original
	MsgErr(msg string, err ...error) Error // new message, wraps original plus extra errors
	Err(err ...error) Error                // attaches additional errors, message unchanged
	SetStatusCode(int) Error               // records the HTTP status code
	StatusCode() int                       // returns the recorded status code, 0 if none
	UnwrapAll() []error                    // returns every wrapped error
}
