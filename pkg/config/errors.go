package config

import "errors"

var (
	// ErrParsingConfig wraps failures reported by the env parser.
	ErrParsingConfig = errors.New("config: cannot parse environment")
	// ErrLoadingEnvFile wraps failures reading a .env file passed to LoadEnv.
	ErrLoadingEnvFile = errors.New("config: cannot load env file")
	// ErrNilPointer is returned by Load and ForceReload for a nil target.
	ErrNilPointer = errors.New("config: nil target")
)
