// Package httptransport is the thin HTTP layer over the three interface
// adapters. Handlers delegate to adapter services without embedding any
// pipeline logic so transport concerns remain isolated.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "sanctum/pkg/domain-errors"
)

// writeJSON renders a response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation to HTTP responses so every
// surface returns the same JSON error envelope. Internal errors omit the
// description to avoid leaking details.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	var de *dErrors.Error
	if status != http.StatusInternalServerError && errors.As(err, &de) {
		body["error_description"] = de.Message
	}
	writeJSON(w, status, body)
}

// decodeJSON parses a request body into target, rejecting unknown fields.
func decodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
