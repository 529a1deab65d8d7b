package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// authenticatedUserID reads the user id the auth middleware attached to the
// request. Empty means the middleware did not run.
func authenticatedUserID(r *http.Request) string {
	return r.Header.Get("User-ID")
}
