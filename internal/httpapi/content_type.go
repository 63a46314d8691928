package httpapi

import (
	"net/http"
	"strings"

	"github.com/shelfd/library/internal/validation"
)

// requireJSON ensures the request has Content-Type application/json
// (optionally with params). Writes 415 if not JSON and returns false;
// otherwise returns true.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		fail(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", validation.NameError)
		return false
	}
	// allow charset or other params after ; and case-insensitive match
	mime := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	if mime != "application/json" {
		fail(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", validation.NameError)
		return false
	}
	return true
}
