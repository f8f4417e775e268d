package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
)

// ErrorDetail is the machine-readable code and human-readable message of a
// failed request. Columns is set only for missing_column errors.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Columns []string `json:"columns,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON encodes body as the JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("handler: encode response", "error", err)
	}
}

// requestError writes a 400 for input rejected before reaching the service
// (e.g. no file, malformed query parameter).
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// writeError maps a service or decoding error onto a status and body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		mce    *domain.MissingColumnError
		rowErr *domain.RowError
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooBig):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
			Code: "payload_too_large", Message: "roster exceeds the upload size limit",
		}})
	case errors.As(err, &mce):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "missing_column", Message: mce.Error(), Columns: mce.Columns,
		}})
	case errors.As(err, &rowErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "row_error", Message: rowErr.Error(),
		}})
	case errors.Is(err, domain.ErrValidation):
		requestError(w, unwrapMessage(err))
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal_error", Message: "internal server error",
		}})
	}
}

// unwrapMessage strips the sentinel prefix from a wrapped validation error.
// e.g. "validation error: header: record on line 1: ..." → "header: record on line 1: ..."
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
}
