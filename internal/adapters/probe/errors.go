package probe

import "errors"

// Sentinel kinds for probe failures.
var (
	ErrResolve  = errors.New("dns resolution failed")
	ErrNoAddrs  = errors.New("dns returned no addresses")
	ErrConnect  = errors.New("tcp connect failed")
	ErrNoTarget = errors.New("target host is empty")
)
