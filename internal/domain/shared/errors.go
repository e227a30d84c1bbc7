package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that carries an underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error codes used across the filing domain
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidItem        = "INVALID_ITEM"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidIdentifier  = "INVALID_IDENTIFIER"
	CodeEmptyItems         = "EMPTY_ITEMS"
	CodeUnsupportedChannel = "UNSUPPORTED_CHANNEL"
	CodeDeliveryFailed     = "DELIVERY_FAILED"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidIdentifier = NewDomainError(CodeInvalidIdentifier, "Invalid identifier format")
	ErrEmptyItems        = NewDomainError(CodeEmptyItems, "Filing has no items")
)
