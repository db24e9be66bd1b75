package solvr

import "fmt"

// APIError is an error returned by the Solvr API. Status is the HTTP
// status code; Code is the machine-readable error code when the server
// provided one.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("solvr: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("solvr: %s (status %d)", e.Message, e.Status)
}

// errorEnvelope is the wire shape of an API error body.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
