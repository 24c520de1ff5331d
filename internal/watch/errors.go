package watch

import "errors"

// Sentinel errors returned by Client.
var (
	ErrUnexpectedStatus = errors.New("watch: unexpected http status")
	ErrDecode           = errors.New("watch: invalid response body")
	ErrNoBaseURL        = errors.New("watch: base url missing")
)
