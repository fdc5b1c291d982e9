// Package errors provides a lightweight structured error type (CombineError)
// for category-based classification across the build, lint and watch surfaces.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an mdcombine error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryLint       ErrorCategory = "lint"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryWatch    ErrorCategory = "watch"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// CombineError is a structured error with category, retryability, and context
type CombineError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for CombineError
type ContextFields map[string]any

// Error implements the error interface
func (e *CombineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *CombineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *CombineError) WithContext(key string, value any) *CombineError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new CombineError
func New(category ErrorCategory, severity ErrorSeverity, message string) *CombineError {
	return &CombineError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new CombineError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *CombineError {
	return &CombineError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if ce, ok := err.(*CombineError); ok {
		return ce.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a CombineError
func GetCategory(err error) ErrorCategory {
	if ce, ok := err.(*CombineError); ok {
		return ce.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error
func ValidationError(message string) *CombineError {
	return &CombineError{
		Category:  CategoryValidation,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// BuildError creates a new fatal build error
func BuildError(message string) *CombineError {
	return &CombineError{
		Category:  CategoryBuild,
		Severity:  SeverityFatal,
		Message:   message,
		Retryable: false,
	}
}

// WrapError wraps an existing error with a new CombineError at error severity
func WrapError(err error, category ErrorCategory, message string) *CombineError {
	return &CombineError{
		Category:  category,
		Severity:  SeverityError,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}
