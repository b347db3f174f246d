package authapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"authd/cmd/internal/auth/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeStatus emits a bare {error, status} envelope.
func writeStatus(w http.ResponseWriter, httpStatus int, s service.Status) {
	writeJSON(w, httpStatus, statusEnvelope(s))
}

func statusEnvelope(s service.Status) envelope {
	return envelope{Error: !s.OK(), Status: string(s)}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure there is no extra data after the first JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
