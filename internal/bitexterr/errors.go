package bitexterr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrSource           = errors.New("source error")
	ErrStoreUnavailable = errors.New("store unavailable")
)
