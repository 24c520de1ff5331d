package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrInvalidLevel = errors.New("invalid status level")
	ErrClosed       = errors.New("store closed")
)
