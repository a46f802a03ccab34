package cli

import "errors"

var (
	ErrUnknownResource = errors.New("cli: unknown settings resource")
	ErrInvalidOutput   = errors.New("cli: output must be yaml or json")
	ErrInvalidInput    = errors.New("cli: invalid input")
	ErrInvalidArgument = errors.New("cli: invalid argument")
)

// displayError carries a user-facing message while keeping the cause
// available to errors.Is.
type displayError struct {
	msg string
	err error
}

func (e *displayError) Error() string { return e.msg }
func (e *displayError) Unwrap() error { return e.err }

// withMessage wraps err so it prints as msg. An empty msg leaves err as is.
func withMessage(msg string, err error) error {
	if err == nil || msg == "" {
		return err
	}
	return &displayError{msg: msg, err: err}
}
