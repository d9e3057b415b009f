package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response body for every endpoint: a success flag,
// a human-readable message, and an optional data payload.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`

	// Errors carries field-level validation messages on 422 responses.
	Errors map[string]string `json:"errors,omitempty"`
}

// RespondWithJSON writes a success envelope with the given status code,
// message and data payload.
func RespondWithJSON(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	data interface{},
) {
	writeEnvelope(w, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}, status)
}

// RespondWithError writes an error envelope with the given status code and
// message. The trace ID from the request context is included for
// correlation.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	writeEnvelope(w, Envelope{
		Success: false,
		Message: message,
		TraceID: traceID,
	}, status)
}

// RespondWithValidationErrors writes a 422 envelope carrying field-level
// validation messages.
func RespondWithValidationErrors(
	w http.ResponseWriter,
	r *http.Request,
	fieldErrors map[string]string,
) {
	writeEnvelope(w, Envelope{
		Success: false,
		Message: "Validation failed",
		TraceID: GetTraceID(r.Context()),
		Errors:  fieldErrors,
	}, http.StatusUnprocessableEntity)
}

// writeEnvelope serializes the envelope with the given status code.
func writeEnvelope(w http.ResponseWriter, envelope Envelope, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
