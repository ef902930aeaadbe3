package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// Configuration Errors.
	// These abort an operation before any I/O happens.

	// ErrInvalidIdentifier indicates the namespace prefix is not exactly one
	// character or is a reserved delimiter.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUnknownLabel indicates a label outside the recognised label set.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrInvalidRange indicates a negative export start.
	ErrInvalidRange = errors.New("invalid range")

	// Operation Errors.

	// ErrSourceUnavailable indicates the record store could not be queried or updated.
	ErrSourceUnavailable = errors.New("record source unavailable")

	// ErrIOFailure indicates a file could not be opened, read or written.
	ErrIOFailure = errors.New("i/o failure")

	// ErrResultFileNotFound indicates the classifier result file for a label is absent.
	// Fatal for that label only.
	ErrResultFileNotFound = errors.New("result file not found")

	// Row Errors.
	// A row failing with one of these is quarantined and processing continues.

	// ErrMalformedRow indicates a result row without exactly two fields.
	ErrMalformedRow = errors.New("malformed row")

	// ErrInvalidID indicates the id fragment of a tagged id does not parse.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidVerdict indicates a verdict other than YES or NO.
	ErrInvalidVerdict = errors.New("invalid verdict")

	// ErrRecordNotFound indicates a valid row that names no record in the store.
	ErrRecordNotFound = errors.New("record not found")
)

// IsConfigurationError reports whether err is a caller mistake detected before I/O.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrUnknownLabel) ||
		errors.Is(err, ErrInvalidRange)
}

// IsRowError reports whether err rejects a single result row.
func IsRowError(err error) bool {
	return errors.Is(err, ErrMalformedRow) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidVerdict) ||
		errors.Is(err, ErrRecordNotFound)
}
