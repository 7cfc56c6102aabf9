// Package types holds the wire envelopes shared by every MinPOS endpoint:
// successes as {"data": ...}, failures as {"error": {...}}.
package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries the taxonomy code (VALIDATION_ERROR, NOT_FOUND, ...) and a
// client-safe message. Details is reserved for field-level validation output.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
