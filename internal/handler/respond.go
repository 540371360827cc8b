package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mbharti12/goal-tracker/internal/apperror"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps an error to its HTTP status and a {"detail": ...} body.
// Untyped errors become opaque 500s and are logged with full detail.
func writeError(w http.ResponseWriter, err error) {
	code := apperror.SafeCode(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, code, errorBody{Detail: apperror.SafeMessage(err)})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func invalidBody() error {
	return apperror.NewValidation("Invalid request body.")
}

func queryBool(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
