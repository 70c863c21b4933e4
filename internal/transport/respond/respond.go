// Package respond centralizes JSON response encoding and domain error
// translation so every handler speaks the same envelope.
package respond

import (
	"encoding/json"
	"net/http"

	dErrors "rezo/pkg/domain-errors"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error translates a domain error into an HTTP response. Non-domain errors
// become opaque 500s; internals never reach the client.
func Error(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	JSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": dErrors.MessageOf(err),
	})
}
