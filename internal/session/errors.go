package session

// ValidationError is a locally detected input problem. It never reaches the
// remote store and is always recoverable by editing the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
