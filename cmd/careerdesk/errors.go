package main

import (
	"errors"
	"fmt"

	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// suggestFor picks the advice shown under a failed backend call.
func suggestFor(err error) string {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Unauthorized():
			return "Run 'careerdesk login' with an account that is allowed to do this."
		case apiErr.StatusCode == 404:
			return "Check the id; 'careerdesk list <collection>' shows what exists."
		case apiErr.StatusCode == 0:
			return "Check that the backend is running and api.base_url points at it."
		}
	}
	return "Retry with --verbose to see the request log."
}
