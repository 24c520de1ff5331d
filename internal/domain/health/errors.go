package health

import "errors"

// Sentinel kinds for health evaluation errors.
var (
	ErrNoPrimary     = errors.New("no primary target configured")
	ErrManyPrimaries = errors.New("more than one primary target configured")
	ErrUnknownTarget = errors.New("unknown target")
)
