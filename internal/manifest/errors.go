package manifest

import (
	"errors"
	"fmt"
)

// Failure classes for loading and validation. Branch on them with
// errors.Is; the concrete findings travel in *Error.
var (
	// ErrMalformedInput means the input is not well-formed YAML.
	ErrMalformedInput = errors.New("malformed input")

	// ErrSchemaViolation means the document parsed but does not conform
	// to the service manifest schema: missing or unknown fields, wrong
	// types, bad enum values, out-of-range numbers.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrInvariantViolation means every field conforms to the schema but
	// a cross-field rule does not hold.
	ErrInvariantViolation = errors.New("invariant violation")
)

// Issue is a single validation finding.
type Issue struct {
	Path    string `json:"path"`    // JSON-pointer field path, e.g. "/spec/ports/0/port"
	Message string `json:"message"` // human-readable description
	Keyword string `json:"keyword,omitempty"` // failing schema keyword; empty for invariant checks
}

// Error is the structured failure returned by Load and friends. Path and
// Message describe the first finding; Issues lists everything that was
// collected before validation stopped.
type Error struct {
	Class   error // one of the Err* sentinels above
	Path    string
	Message string
	Issues  []Issue
	cause   error
}

func (e *Error) Error() string {
	msg := e.Class.Error()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if n := len(e.Issues); n > 1 {
		msg += fmt.Sprintf(" (and %d more issues)", n-1)
	}
	return msg
}

// Unwrap exposes the failure class and, for malformed input, the decoder
// error, so errors.Is works against the sentinels.
func (e *Error) Unwrap() []error {
	errs := []error{e.Class}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// malformed wraps a YAML decoder error as a malformed-input failure.
func malformed(err error) *Error {
	return &Error{Class: ErrMalformedInput, Message: err.Error(), cause: err}
}

// violation builds a schema or invariant failure from collected issues.
func violation(class error, issues []Issue) *Error {
	e := &Error{Class: class, Issues: issues}
	if len(issues) > 0 {
		e.Path = issues[0].Path
		e.Message = issues[0].Message
	}
	return e
}

// Process exit codes of the validate contract.
const (
	ExitOK        = 0
	ExitMalformed = 1
	ExitInvalid   = 2
)

// ExitCode maps an error from Load or Validate to the documented process
// exit code: 0 for success, 1 for malformed input, 2 for schema or
// invariant violations. Errors outside the taxonomy, such as I/O failures,
// map to 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrSchemaViolation), errors.Is(err, ErrInvariantViolation):
		return ExitInvalid
	default:
		return ExitMalformed
	}
}
