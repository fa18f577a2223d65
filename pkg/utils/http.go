package utils

import (
	"encoding/json"
	"net/http"
)

type errBody struct {
	Error string `json:"error"`
}

// JSONError writes {"error": message} with the given status.
func JSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errBody{Error: message})
}

// JSONWrite encodes v as the response body. Pass 0 to keep the implicit
// 200 from the first body write.
func JSONWrite(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	return json.NewEncoder(w).Encode(v)
}
