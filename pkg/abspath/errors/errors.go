// Package errors defines the structured error type used across abspath.
// Every failure raised by the path, file, and directory layers carries a
// stable ErrorCode so callers (and tests) can branch on the kind of failure
// without parsing message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure category.
type ErrorCode string

const (
	// ErrUnknown is returned by GetErrorCode for foreign errors.
	ErrUnknown ErrorCode = "UNKNOWN"

	// ErrMalformedPath means the input lacks a recognized root, a relative
	// path was supplied where an absolute one is required, or a combine
	// right-hand side is itself rooted.
	ErrMalformedPath ErrorCode = "MALFORMED_PATH"

	// ErrSeparatorConflict means the requested separator is incompatible
	// with the path's root kind, or a relative-path computation spans
	// paths with different separators or roots.
	ErrSeparatorConflict ErrorCode = "SEPARATOR_CONFLICT"

	// ErrRootBoundary means normalization was asked to resolve a parent
	// reference past the established root.
	ErrRootBoundary ErrorCode = "ROOT_BOUNDARY"

	// ErrFileNotFound means an operation requires an existing file and
	// the target is absent.
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"

	// ErrDirNotFound means an operation requires an existing directory
	// and the target is absent.
	ErrDirNotFound ErrorCode = "DIR_NOT_FOUND"

	// ErrAlreadyExists means the conflict policy is fail and the target
	// is present.
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// ErrInvalidPolicy means mutually exclusive policy bits were set
	// simultaneously, or an argument is out of its valid range.
	ErrInvalidPolicy ErrorCode = "INVALID_POLICY"

	// ErrInvalidTarget means a recursive copy or move destination is a
	// descendant of its source.
	ErrInvalidTarget ErrorCode = "INVALID_TARGET"

	// ErrFileAccess covers primitive filesystem failures (permissions,
	// I/O errors) surfaced by the collaborator.
	ErrFileAccess ErrorCode = "FILE_ACCESS"

	// ErrHashFailed means a content digest could not be computed.
	ErrHashFailed ErrorCode = "HASH_FAILED"
)

// PathError is the structured error raised by this module.
type PathError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *PathError) Unwrap() error {
	return e.Wrapped
}

// Is reports code equality, so errors.Is can match two PathErrors by kind.
func (e *PathError) Is(target error) bool {
	var targetErr *PathError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a PathError with the given code and message.
func New(code ErrorCode, message string) *PathError {
	return &PathError{Code: code, Message: message}
}

// Newf creates a PathError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *PathError {
	return &PathError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error under a code. Returns nil for a nil error.
func Wrap(err error, code ErrorCode, message string) *PathError {
	if err == nil {
		return nil
	}
	return &PathError{Code: code, Message: message, Wrapped: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PathError {
	if err == nil {
		return nil
	}
	return &PathError{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// IsErrorCode reports whether err (or anything it wraps) carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return pathErr.Code == code
	}
	return false
}

// GetErrorCode returns the code carried by err, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var pathErr *PathError
	if errors.As(err, &pathErr) {
		return pathErr.Code
	}
	return ErrUnknown
}
