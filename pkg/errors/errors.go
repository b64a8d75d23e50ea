package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeTransport represents network or timeout errors
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeUpstreamShape represents responses that parsed but lacked the expected fields
	ErrorTypeUpstreamShape ErrorType = "upstream_shape"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeConfiguration represents configuration errors, e.g. a missing credential
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeValidation represents malformed input or records
	ErrorTypeValidation ErrorType = "validation"
)

// SourceError represents an error scoped to one upstream source
type SourceError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *SourceError) IsRetryable() bool {
	return e.Type == ErrorTypeTransport
}

// New creates a new SourceError
func New(errType ErrorType, source, message string, err error) *SourceError {
	return &SourceError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewTransport creates a new transport error
func NewTransport(source, message string, err error) *SourceError {
	return New(ErrorTypeTransport, source, message, err)
}

// NewUpstreamShape creates a new upstream shape error
func NewUpstreamShape(source, message string, err error) *SourceError {
	return New(ErrorTypeUpstreamShape, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *SourceError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *SourceError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *SourceError {
	return New(ErrorTypeValidation, source, message, nil)
}

// IsType reports whether err is a SourceError of the given type
func IsType(err error, errType ErrorType) bool {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Type == errType
	}
	return false
}
