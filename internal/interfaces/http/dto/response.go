package dto

import "net/http"

// ErrorResponse is the body of every failed request: the raw error
// message under a single error key.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

var codeStatus = map[string]int{
	"INVALID_TYPE":         http.StatusBadRequest,
	"INVALID_ACTION":       http.StatusBadRequest,
	"INVALID_PAGINATION":   http.StatusBadRequest,
	"MISSING_ID":           http.StatusBadRequest,
	"MISSING_UNIQUE_PROPS": http.StatusBadRequest,
	"INVALID_BODY":         http.StatusBadRequest,
	"INVALID_URL":          http.StatusBadRequest,
	"MISSING_FILE":         http.StatusBadRequest,
	"NOT_FOUND":            http.StatusNotFound,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,
	"EMAIL_TAKEN":          http.StatusConflict,
	"UPSTREAM_FAILURE":     http.StatusBadGateway,
}

// StatusForCode maps a domain error code onto its HTTP status.
// Unmapped codes fall through to 500.
func StatusForCode(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
