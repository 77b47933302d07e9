package utils

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteErrorReason adds a machine readable reason, e.g. a coupon rejection.
func WriteErrorReason(w http.ResponseWriter, status int, message, reason string) {
	WriteJSON(w, status, map[string]string{"error": message, "reason": reason})
}

// DecodeJSON reads a request body of at most maxBytes into dst.
func DecodeJSON(r *http.Request, dst interface{}, maxBytes int64) error {
	body := io.LimitReader(r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
