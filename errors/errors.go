// Package errors provides error handling for dlog.
//
// This package re-exports github.com/cockroachdb/errors so every dlog package
// imports a single errors package and gets stack traces, hints and details.
//
// Usage:
//
//	if err := os.MkdirAll(dir, 0o755); err != nil {
//	    return errors.WrapIO(err, "create record directory %s", dir)
//	}
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // record, item or fact type does not exist
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors, one per failure kind. Always wrap them with context;
// callers check with errors.Is.
var (
	// ErrNotFound indicates a named record, item or fact type does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates caller input was malformed
	ErrInvalidRequest = New("invalid request")

	// ErrInvalidName indicates a record, item or fact name failed validation
	ErrInvalidName = New("invalid name")

	// ErrIO indicates a file system failure
	ErrIO = New("i/o failure")

	// ErrMalformedRow indicates a CSV row could not be decoded
	ErrMalformedRow = New("malformed csv row")

	// ErrConfig indicates configuration could not be loaded or is invalid
	ErrConfig = New("invalid configuration")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsMalformedRowError checks if an error is or wraps ErrMalformedRow
func IsMalformedRowError(err error) bool {
	return err != nil && Is(err, ErrMalformedRow)
}

// WrapNotFound wraps an error as a not-found error with context
func WrapNotFound(err error, context string) error {
	return Wrap(Mark(err, ErrNotFound), context)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewInvalidNameError creates an invalid-name error carrying a hint with the naming rules.
func NewInvalidNameError(name, reason string) error {
	err := Wrapf(ErrInvalidName, "%q: %s", name, reason)
	return WithHint(err, `names must be 1-40 characters, contain none of @ / & ^ $ # \ and not be a command word`)
}

// WrapIO marks err as a file system failure and adds formatted context.
func WrapIO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrapf(Mark(err, ErrIO), format, args...)
}

// WrapConfig marks err as a configuration failure and adds context.
func WrapConfig(err error, context string) error {
	if err == nil {
		return nil
	}
	return Wrap(Mark(err, ErrConfig), context)
}

// NewMalformedRowError reports a CSV decoding failure at a given row of path.
func NewMalformedRowError(path string, row int, reason string) error {
	err := Wrapf(ErrMalformedRow, "%s row %d: %s", path, row, reason)
	return WithDetailf(err, "path=%s row=%d", path, row)
}
