// NFTMirror - NFT Marketplace Indexing and Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nftmirror

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nftmirror/internal/logging"
)

// APIResponse is the envelope for every response.
type APIResponse struct {
	Success bool `json:"success"`

	// Data contains the response payload (omitted on error)
	Data interface{} `json:"data,omitempty"`

	// Message is the client-facing error message (omitted on success)
	Message string `json:"message,omitempty"`

	// QueryTime is the Unix time in milliseconds the response was produced
	QueryTime int64 `json:"query_time,omitempty"`
}

// CountResult is the payload of the _count routes.
type CountResult struct {
	Count int64 `json:"count"`
}

// ResponseWriter provides methods for writing standardized API responses.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, APIResponse{
		Success:   true,
		Data:      data,
		QueryTime: time.Now().UnixMilli(),
	})
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, message string) {
	rw.writeJSON(statusCode, APIResponse{
		Success: false,
		Message: message,
	})
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, message)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound() {
	rw.Error(http.StatusNotFound, "Not Found")
}

// TooManyRequests writes a 429 Too Many Requests error.
func (rw *ResponseWriter) TooManyRequests() {
	rw.Error(http.StatusTooManyRequests, "Too Many Requests")
}

// InternalError writes a 500 Internal Server Error.
func (rw *ResponseWriter) InternalError() {
	rw.Error(http.StatusInternalServerError, "Internal Server Error")
}

// ServiceUnavailable writes a 503 Service Unavailable error with data.
func (rw *ResponseWriter) ServiceUnavailable(data interface{}) {
	rw.writeJSON(http.StatusServiceUnavailable, APIResponse{
		Success:   false,
		Data:      data,
		Message:   "Service Unavailable",
		QueryTime: time.Now().UnixMilli(),
	})
}

// writeJSON writes JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}
