package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// readBody reads a request body of at most limit bytes. On failure it
// returns the status code to answer with.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, int, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds max size (%d bytes)", limit)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("read body: %w", err)
	}
	return data, http.StatusOK, nil
}

// decodeJSON reads and decodes a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) (int, error) {
	data, code, err := readBody(w, r, limit)
	if err != nil {
		return code, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return http.StatusBadRequest, fmt.Errorf("invalid json: %w", err)
	}
	return http.StatusOK, nil
}
