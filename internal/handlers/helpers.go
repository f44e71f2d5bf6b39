package handlers

import (
	"encoding/json"
	"net/http"
)

// AppVersion is stamped at build time and reported by the health endpoint.
var AppVersion = "dev"

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return decodeJSONLimit(r, v, 1<<20) // 1MB default
}

// decodeJSONLimit is for bodies that legitimately carry base64 image
// payloads (generation inputs, history imports).
func decodeJSONLimit(r *http.Request, v interface{}, limit int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, limit)
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
