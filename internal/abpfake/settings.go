package abpfake

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// settingsRoute serves GET and PUT for one settings resource. A PUT body is
// decoded over the current value, so fields it omits keep their values.
func settingsRoute[T any](r chi.Router, path string, mu *sync.Mutex, value *T) {
	r.Get(path, func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		v, _ := json.Marshal(*value)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(v)
	})
	r.Put(path, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, validationError("Malformed request body.", "body"))
			return
		}
		mu.Lock()
		// Decode into a deep copy so slices already handed out stay untouched.
		var next T
		current, _ := json.Marshal(*value)
		_ = json.Unmarshal(current, &next)
		if err := json.Unmarshal(body, &next); err != nil {
			mu.Unlock()
			writeError(w, validationError("Malformed request body.", "body"))
			return
		}
		*value = next
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
}
