package abpfake

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/abpadmin/pkg/restclient"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, e *restclient.RemoteError) {
	writeJSON(w, e.StatusCode, map[string]any{"error": e})
}

func businessError(status int, code, message string) *restclient.RemoteError {
	return &restclient.RemoteError{StatusCode: status, Code: code, Message: message}
}

func validationError(message string, members ...string) *restclient.RemoteError {
	return &restclient.RemoteError{
		StatusCode:       http.StatusBadRequest,
		Message:          "Your request is not valid!",
		Details:          "The following errors were detected during validation.",
		ValidationErrors: []restclient.ValidationError{{Message: message, Members: members}},
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, validationError("Malformed request body.", "body"))
		return false
	}
	return true
}
