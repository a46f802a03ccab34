package restclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidBaseURL  = errors.New("restclient: invalid base URL")
	ErrEncodeRequest   = errors.New("restclient: failed to encode request body")
	ErrRequestFailed   = errors.New("restclient: request failed")
	ErrTimeout         = errors.New("restclient: request timeout")
	ErrDecodeResponse  = errors.New("restclient: failed to decode response body")
	ErrBadRequest      = errors.New("restclient: bad request")
	ErrValidation      = errors.New("restclient: validation failed")
	ErrUnauthorized    = errors.New("restclient: unauthorized")
	ErrForbidden       = errors.New("restclient: forbidden")
	ErrNotFound        = errors.New("restclient: not found")
	ErrConflict        = errors.New("restclient: conflict")
	ErrServer          = errors.New("restclient: server error")
	ErrUnexpectedError = errors.New("restclient: unexpected status")
)

// ValidationError is one entry of ABP's validationErrors array.
type ValidationError struct {
	Message string   `json:"message"`
	Members []string `json:"members"`
}

// RemoteError is a non-2xx response from the ABP host.
type RemoteError struct {
	StatusCode       int               `json:"-"`
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	Details          string            `json:"details"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// errorEnvelope is the body shape ABP uses for failed requests.
type errorEnvelope struct {
	Error *RemoteError `json:"error"`
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "abp: status %d", e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, v := range e.ValidationErrors {
		b.WriteString("; ")
		if len(v.Members) > 0 {
			b.WriteString(strings.Join(v.Members, ","))
			b.WriteString(": ")
		}
		b.WriteString(v.Message)
	}
	return b.String()
}

// ServerMessage is the message the server sent, or the first validation
// message, or "" when the body carried neither.
func (e *RemoteError) ServerMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.ValidationErrors) > 0 {
		return e.ValidationErrors[0].Message
	}
	return ""
}

// DisplayMessage is the text a user should see for this error.
func (e *RemoteError) DisplayMessage() string {
	if msg := e.ServerMessage(); msg != "" {
		return msg
	}
	return http.StatusText(e.StatusCode)
}

// Is maps the status code onto the package's status sentinels.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest && len(e.ValidationErrors) > 0
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	case ErrUnexpectedError:
		return !e.known()
	}
	return false
}

// known reports whether a more specific sentinel covers the status.
func (e *RemoteError) known() bool {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusConflict:
		return true
	}
	return e.StatusCode >= http.StatusInternalServerError
}

// AsRemote returns the *RemoteError in err's chain, if any.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
