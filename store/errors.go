package store

import "errors"

// Errors returned by the persistence backends.
var (
	ErrNoSnapshot        = errors.New("no snapshot saved")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrUnsupportedFormat = errors.New("unsupported data format")
)
