package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"stockin-agent/internal/app"
	"stockin-agent/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps application errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case app.IsNotFound(err):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrInvalidSelection):
		writeError(w, r, err.Error(), "NO_PO_SELECTED", http.StatusConflict)
	case errors.Is(err, app.ErrScanInProgress):
		writeError(w, r, err.Error(), "SCAN_IN_PROGRESS", http.StatusConflict)
	case errors.Is(err, core.ErrPurchaseOrderCancelled):
		writeError(w, r, err.Error(), "PO_CANCELLED", http.StatusConflict)
	case errors.Is(err, app.ErrNothingToFinalize):
		writeError(w, r, err.Error(), "NOTHING_TO_FINALIZE", http.StatusConflict)
	case errors.Is(err, core.ErrInvalidQuantity), errors.Is(err, app.ErrInvalidRequest):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
