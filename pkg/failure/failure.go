// Package failure turns errors into the single display string stores keep in
// their state, and contains panics raised by service calls.
package failure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/abpadmin/pkg/restclient"
)

// ErrPanic marks an error produced from a recovered panic whose value was
// not an error. Its text never reaches the display string.
var ErrPanic = errors.New("failure: call panicked")

// Message extracts the display string for err:
// the server's message for remote errors, the error text otherwise, and
// fallback for recovered non-error panics, remote errors without a message
// and errors with empty text.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrPanic) {
		return fallback
	}
	if re, ok := restclient.AsRemote(err); ok {
		if msg := re.ServerMessage(); msg != "" {
			return msg
		}
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// Capture runs fn and converts a panic into an error. Panics carrying an
// error are returned as that error; any other value is wrapped in ErrPanic.
func Capture[R any](fn func() (R, error)) (r R, err error) {
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return fn()
}
