// Package types holds the wire envelopes shared by every gateway response.
package types

// SuccessEnvelope wraps every successful payload under a single data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error shape: a stable machine code, a short
// human message, and optional per-field details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope carries one APIError under an error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
