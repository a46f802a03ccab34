package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrNilPointer is returned when a nil pointer is provided to Load.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrEnvFileMissing is returned by LoadEnv when a listed file does not exist.
	ErrEnvFileMissing = errors.New("env file not found")

	// ErrLoadingEnvFile is returned by LoadEnv when a file exists but cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")
)
