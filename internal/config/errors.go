package config

import "errors"

var (
	// ErrInvalidConfig marks a configuration that loaded but cannot drive a
	// balancing run, e.g. weights that do not match the bracket count.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a file, environment or decoding failure.
	ErrLoadConfig = errors.New("load config failed")
)
