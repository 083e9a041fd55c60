package model

import "errors"

// Sentinel error kinds for structural validation. Both are raised before
// any optimization starts.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMalformedInput       = errors.New("malformed input")
)
