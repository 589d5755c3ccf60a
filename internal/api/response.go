// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/shelfscout/shelfscout/internal/logging"
)

// Error codes returned in the standardized envelope.
const (
	CodeNotFound                = "NOT_FOUND"
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeBadRequest              = "BAD_REQUEST"
	CodeInternalError           = "INTERNAL_ERROR"
	CodeInvalidHistoryReference = "INVALID_HISTORY_REFERENCE"
	CodeDegenerateVector        = "DEGENERATE_VECTOR"
	CodeNotReady                = "NOT_READY"
)

// APIResponse is the standardized response envelope for all endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError carries a machine-readable code plus human-readable detail.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// APIMeta carries per-request metadata.
type APIMeta struct {
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ResponseWriter writes envelope responses.
type ResponseWriter struct {
	logger zerolog.Logger
}

// NewResponseWriter creates a response writer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewResponseWriter(logger zerolog.Logger) *ResponseWriter {
	return &ResponseWriter{logger: logger}
}

// Success writes a 200 envelope with the given payload.
func (rw *ResponseWriter) Success(w http.ResponseWriter, r *http.Request, data interface{}) {
	rw.write(w, r, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error writes an error envelope with the given status and code.
func (rw *ResponseWriter) Error(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	rw.write(w, r, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// NotFound writes a 404 envelope.
func (rw *ResponseWriter) NotFound(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusNotFound, CodeNotFound, message, nil)
}

// BadRequest writes a 400 envelope.
func (rw *ResponseWriter) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	rw.Error(w, r, http.StatusBadRequest, CodeBadRequest, message, nil)
}

// ValidationError writes a 400 envelope with VALIDATION_FAILED.
func (rw *ResponseWriter) ValidationError(w http.ResponseWriter, r *http.Request, message string, details map[string]interface{}) {
	rw.Error(w, r, http.StatusBadRequest, CodeValidationFailed, message, details)
}

// InternalError writes a 500 envelope. The underlying error is logged,
// not leaked to the client.
func (rw *ResponseWriter) InternalError(w http.ResponseWriter, r *http.Request, err error) {
	rw.logger.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("internal error")
	rw.Error(w, r, http.StatusInternalServerError, CodeInternalError, "internal server error", nil)
}

// write serializes the envelope. Meta is stamped here so every response
// carries the request ID and timestamp without handler involvement.
func (rw *ResponseWriter) write(w http.ResponseWriter, r *http.Request, status int, resp APIResponse) {
	resp.Meta = &APIMeta{
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rw.logger.Error().Err(err).Msg("failed to encode response")
	}
}
