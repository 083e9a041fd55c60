package balance

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidRate = errors.New("invalid tolerance rate")
)
