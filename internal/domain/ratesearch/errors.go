package ratesearch

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidSearch = errors.New("invalid rate search")
)
