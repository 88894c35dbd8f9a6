// Package types holds the JSON envelope shapes shared by every endpoint:
// successes wrap their payload under "data", failures under "error".
package types

// SuccessEnvelope wraps a successful response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a typed application error. Details is
// populated only for codes that allow structured payloads, such as the
// limiting-flavor breakdown on an insufficient-stock conflict.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a failed response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
