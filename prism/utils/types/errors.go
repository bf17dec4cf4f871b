package types

import "net/http"

// APIError carries an HTTP status and a machine-readable code through the
// controller layer so routes can map failures without string matching.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "validation", Message: msg}
}

func NewUnauthorizedError(msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: msg}
}

func NewInternalError(msg string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: "internal", Message: msg}
}
