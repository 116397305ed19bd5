// Package httputil writes JSON responses and error bodies in the shape every
// handler shares.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Error codes written in the "error" field.
const (
	CodeBadRequest      = "bad_request"
	CodeValidation      = "validation_error"
	CodeVendorRejected  = "vendor_rejected"
	CodeBadGateway      = "bad_gateway"
	CodeGatewayTimeout  = "gateway_timeout"
	CodeInternal        = "internal_error"
	CodeNotFound        = "not_found"
	CodeUnsupportedType = "unsupported_media_type"
)

// ErrorResponse is the JSON error body. Details carries per-code vendor
// messages when the upstream service rejected the request.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Details          map[string]string `json:"details,omitempty"`
}

// WriteJSON writes v as the JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error body. Descriptions of 5xx errors other than
// gateway failures are dropped so internal details never leak.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteErrorDetails(w, status, code, description, nil)
}

// WriteErrorDetails is WriteError with a details map.
func WriteErrorDetails(w http.ResponseWriter, status int, code, description string, details map[string]string) {
	if status == http.StatusInternalServerError {
		description = ""
	}
	WriteJSON(w, status, ErrorResponse{
		Error:            code,
		ErrorDescription: description,
		Details:          details,
	})
}
