// Package config loads typed configuration from the process environment.
//
// It wraps github.com/joho/godotenv, which reads .env files into the
// environment, and github.com/caarlos0/env/v11, which parses the environment
// into structs annotated with `env` tags.
//
// The package keeps no global state: every call to Load parses the current
// environment into the value it is given, so values are owned by the caller
// and passed through the composition root explicitly.
//
// # Usage
//
//	var cfg config.Client
//	if err := config.LoadEnv(".env"); err != nil && !errors.Is(err, config.ErrEnvFileMissing) {
//	    return err
//	}
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// # Error Handling
//
//   - ErrParsingConfig: the environment could not be parsed into the struct.
//   - ErrNilPointer: Load was given a nil pointer.
//   - ErrEnvFileMissing: LoadEnv was given a file that does not exist.
package config
