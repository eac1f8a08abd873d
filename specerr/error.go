// Package specerr provides structured error types for the parsing and diff
// pipeline. Errors carry an operation name, a standard code, and a
// user-facing message so callers can surface failures verbatim without
// string matching. It integrates with the standard errors package for
// wrapping and unwrapping.
package specerr

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error codes used across the pipeline for consistent reporting.
const (
	// CodePrecondition indicates a mutating command was issued without a
	// current graph. Always surfaced with confidence 0.
	CodePrecondition = "PRECONDITION_FAILED"

	// CodeNotRecognized indicates no pattern matched the input. Paired with
	// a fallback graph and confidence 0.3.
	CodeNotRecognized = "NOT_RECOGNIZED"

	// CodeNotFound indicates a named node or type is absent from the graph.
	CodeNotFound = "NOT_FOUND"

	// CodeInvalidOperation indicates a malformed diff operation.
	CodeInvalidOperation = "INVALID_OPERATION"

	// CodeArtifactInvalid indicates the knowledge artifact failed to load.
	CodeArtifactInvalid = "ARTIFACT_INVALID"
)

// Error is a structured pipeline error. It identifies the operation that
// failed, the error category, and a message suitable for direct display.
type Error struct {
	// Op is the operation that failed (e.g., "add", "apply", "match").
	Op string

	// Code is one of the standard error code constants.
	Code string

	// Message is a user-facing description, localized to the product's
	// mixed Korean/English convention.
	Message string

	// Details contains additional context as key-value pairs.
	Details map[string]any

	// Cause is the underlying error, if any.
	Cause error
}

// New creates a new structured pipeline error.
func New(op, code, message string) *Error {
	return &Error{Op: op, Code: code, Message: message}
}

// WithCause attaches an underlying error and returns the error for chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetail attaches a single context value and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Error implements the error interface.
// Format: "op [CODE]: message: cause".
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("%s [%s]", e.Op, e.Code)}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports equality by Op and Code, ignoring the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Op == t.Op && e.Code == t.Code
}

// CodeOf extracts the standard code from an error chain.
// Returns the empty string when the chain holds no *Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Sentinel errors for common conditions.
var (
	// ErrNoCurrentGraph is returned when a mutating command has no graph to act on.
	ErrNoCurrentGraph = errors.New("no current graph")

	// ErrNotRecognized is returned when no pattern rule matched the input.
	ErrNotRecognized = errors.New("input not recognized")
)
