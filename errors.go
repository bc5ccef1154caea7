package ttyl

import "errors"

var (
	// ErrInvalidSize is returned when a screen is requested with no rows or columns.
	ErrInvalidSize = errors.New("invalid terminal size")

	// ErrNotConnected is returned when writing to a terminal that has no transport attached.
	ErrNotConnected = errors.New("terminal is not connected")

	// ErrUnknownEncoding is returned when the configured text encoding cannot be found.
	ErrUnknownEncoding = errors.New("unknown text encoding")

	// ErrSessionClosed is returned when a terminal is run again after its session ended.
	ErrSessionClosed = errors.New("terminal session closed")
)
