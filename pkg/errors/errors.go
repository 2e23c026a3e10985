// Package errors provides structured error types for lockgraph.
//
// Every failure surfaced by the parsers, the graph builder and the resolver
// carries a machine-readable [Code]. Codes are grouped into four categories
// (see [Category]):
//   - Malformed input: a name, install path, specifier or lockfile failed
//     its grammar. The message always quotes the offending text.
//   - Graph consistency: the lockfile describes something the graph cannot
//     represent without guessing (missing root, ambiguous resolution).
//   - Not found: a declared dependency has no candidate.
//   - I/O: the injected loader failed. The original error is kept as the
//     cause so errors.Is(err, fs.ErrNotExist) keeps working.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidName, "invalid package name %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidName) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Malformed input
	ErrCodeInvalidName      Code = "INVALID_NAME"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidOverride  Code = "INVALID_OVERRIDE"
	ErrCodeInvalidLockfile  Code = "INVALID_LOCKFILE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeUnsupportedInput Code = "UNSUPPORTED_LOCKFILE"

	// Graph consistency
	ErrCodeMissingRoot         Code = "MISSING_ROOT"
	ErrCodeRootConflict        Code = "ROOT_CONFLICT"
	ErrCodeDuplicateOverride   Code = "DUPLICATE_OVERRIDE"
	ErrCodeAmbiguousResolution Code = "AMBIGUOUS_RESOLUTION"
	ErrCodeUnknownPackage      Code = "UNKNOWN_PACKAGE"

	// Not found
	ErrCodeDependencyNotFound Code = "DEPENDENCY_NOT_FOUND"

	// I/O
	ErrCodeIO Code = "IO"
)

// Category groups codes by how a caller is expected to react to them.
type Category string

const (
	CategoryMalformedInput   Category = "malformed-input"
	CategoryGraphConsistency Category = "graph-consistency"
	CategoryNotFound         Category = "not-found"
	CategoryIO               Category = "io"
	CategoryUnknown          Category = ""
)

// Category returns the category the code belongs to.
func (c Code) Category() Category {
	switch c {
	case ErrCodeInvalidName, ErrCodeInvalidPath, ErrCodeInvalidOverride,
		ErrCodeInvalidLockfile, ErrCodeInvalidConfig, ErrCodeUnsupportedInput:
		return CategoryMalformedInput
	case ErrCodeMissingRoot, ErrCodeRootConflict, ErrCodeDuplicateOverride,
		ErrCodeAmbiguousResolution, ErrCodeUnknownPackage:
		return CategoryGraphConsistency
	case ErrCodeDependencyNotFound:
		return CategoryNotFound
	case ErrCodeIO:
		return CategoryIO
	}
	return CategoryUnknown
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCategory returns the category of the outermost coded error in err.
func GetCategory(err error) Category {
	return GetCode(err).Category()
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
