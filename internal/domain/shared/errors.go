package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidType        = NewDomainError("INVALID_TYPE", "Unknown logical type")
	ErrInvalidAction      = NewDomainError("INVALID_ACTION", "Unknown action")
	ErrInvalidPagination  = NewDomainError("INVALID_PAGINATION", "Page and pageSize must be positive integers")
	ErrMissingID          = NewDomainError("MISSING_ID", "An id is required for this action")
	ErrMissingUniqueProps = NewDomainError("MISSING_UNIQUE_PROPS", "All unique properties must be present and non-null")
	ErrInvalidBody        = NewDomainError("INVALID_BODY", "Request body is not valid JSON for this type")
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Email or password is incorrect")
)
