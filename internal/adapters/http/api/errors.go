package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrUnavailable = errors.New("status not available yet")
	ErrInternal    = errors.New("internal error")
)
