package common

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration indicates the watcher cannot start with the
// provided configuration. Callers use errors.Is against it to pick the
// startup exit code.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context information
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Section != "" && e.Field != "" {
		return fmt.Sprintf("configuration error in section '%s', field '%s': %s", e.Section, e.Field, e.Reason)
	} else if e.Section != "" {
		return fmt.Sprintf("configuration error in section '%s': %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(section, field, reason string) *ConfigurationError {
	return &ConfigurationError{
		Section: section,
		Field:   field,
		Reason:  reason,
	}
}

// NetworkError represents transport-level failures: connection errors,
// timeouts, and non-2xx responses on fetch or webhook delivery.
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("network error for '%s': %s: %v", e.URL, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("network error for '%s': %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// NewNetworkError creates a new network error
func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{
		URL:     url,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// HTTPError represents a non-2xx HTTP response
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("HTTP %d error for '%s': %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d error: %s", e.StatusCode, e.Message)
}

// NewHTTPErrorWithURL creates a new HTTP error with URL context
func NewHTTPErrorWithURL(statusCode int, message, url string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		URL:        url,
	}
}

// ParseError indicates the fetched document did not yield any ranking rows,
// usually because the page structure changed.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("parse error for '%s': %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// NewParseError creates a new parse error
func NewParseError(url, reason string) *ParseError {
	return &ParseError{
		URL:    url,
		Reason: reason,
	}
}

// NotifyError represents a failed delivery to a notification sink. It never
// terminates the watch loop.
type NotifyError struct {
	Sink    string
	Reason  string
	Wrapped error
}

func (e *NotifyError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("notify error via %s: %s: %v", e.Sink, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("notify error via %s: %s", e.Sink, e.Reason)
}

func (e *NotifyError) Unwrap() error {
	return e.Wrapped
}

// NewNotifyError creates a new notify error
func NewNotifyError(sink, reason string, wrapped error) *NotifyError {
	return &NotifyError{
		Sink:    sink,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// StateError represents a failure reading or writing a persisted artifact
// (state file, output file, history database).
type StateError struct {
	Path    string
	Op      string
	Wrapped error
}

func (e *StateError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("state error (%s '%s'): %v", e.Op, e.Path, e.Wrapped)
	}
	return fmt.Sprintf("state error (%s '%s')", e.Op, e.Path)
}

func (e *StateError) Unwrap() error {
	return e.Wrapped
}

// NewStateError creates a new state error
func NewStateError(path, op string, wrapped error) *StateError {
	return &StateError{
		Path:    path,
		Op:      op,
		Wrapped: wrapped,
	}
}
