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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ValidationErrors carries field-level validation failures for a mutation.
// Keys are input field names, values are the messages for that field.
// Validation failures are recovered locally and never reach the store.
type ValidationErrors struct {
	Fields  map[string][]string `json:"fields"`
	Message string              `json:"message"`
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	return e.Message
}

// NewValidationErrors creates an empty ValidationErrors with a top-level message
func NewValidationErrors(message string) *ValidationErrors {
	return &ValidationErrors{
		Fields:  make(map[string][]string),
		Message: message,
	}
}

// Add appends a message for a field
func (e *ValidationErrors) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed validation
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Fields) > 0
}
