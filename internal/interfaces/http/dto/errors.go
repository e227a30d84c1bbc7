package dto

import (
	"net/http"

	"github.com/neximp/backend/internal/domain/shared"
)

// Error codes surfaced by the HTTP layer. Domain codes pass through
// unchanged; these cover failures that never reach the domain.
const (
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = shared.CodeValidation
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:         http.StatusBadRequest,
	shared.CodeInvalidItem:        http.StatusBadRequest,
	shared.CodeEmptyItems:         http.StatusBadRequest,
	shared.CodeInvalidIdentifier:  http.StatusBadRequest,
	shared.CodeUnsupportedChannel: http.StatusBadRequest,
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeDeliveryFailed:     http.StatusBadGateway,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
