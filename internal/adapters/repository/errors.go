package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
	ErrMissingKey    = errors.New("record is missing a key attribute")
	ErrUnprocessed   = errors.New("batch items left unprocessed")
	ErrInvalidTarget = errors.New("decode target must be a non-nil pointer")
)
