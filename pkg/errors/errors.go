package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeSession   ErrorType = "session"
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeTransient ErrorType = "transient"
	ErrorTypeBackend   ErrorType = "backend"
	ErrorTypeArgument  ErrorType = "argument"
	ErrorTypeState     ErrorType = "state"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error represents a scraper error with type information
type Error struct {
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error with a formatted message
func New(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeTransient:
		return true
	default:
		return false
	}
}
