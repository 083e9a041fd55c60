package source

import "errors"

// Sentinel error kinds for pool files.
var (
	ErrReadPool   = errors.New("read pool failed")
	ErrDecodePool = errors.New("decode pool failed")
)
