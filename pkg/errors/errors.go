package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration, record, or form validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// APIError represents a failed call to the career-services backend.
// StatusCode is zero when the request never produced a response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// NewAPIError constructs an APIError.
func NewAPIError(endpoint string, statusCode int, message string, err error) error {
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message, Err: err}
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	detail := e.Message
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error [%s %d]: %s", e.Endpoint, e.StatusCode, detail)
	}
	return fmt.Sprintf("api error [%s]: %s", e.Endpoint, detail)
}

// Unwrap exposes the underlying error.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Unauthorized reports whether the backend rejected the session token.
func (e *APIError) Unauthorized() bool {
	return e != nil && (e.StatusCode == 401 || e.StatusCode == 403)
}

// StepError reports misuse of a wizard, such as jumping to a step that does
// not exist.
type StepError struct {
	Step    string
	Message string
}

// NewStepError constructs a StepError for the named step.
func NewStepError(step, message string) error {
	return &StepError{Step: step, Message: message}
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	if e.Step != "" {
		return fmt.Sprintf("step error [%s]: %s", e.Step, e.Message)
	}
	return fmt.Sprintf("step error: %s", e.Message)
}
