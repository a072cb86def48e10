package controller

import (
	"errors"
	"net/http"
)

// AppError is the error contract between handlers and the error page.
// Message is shown to the user; Cause is only logged.
type AppError struct {
	HTTPStatus int
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: message}
}

// NewInternalError creates a new internal error with optional cause.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: message, Cause: cause}
}

const defaultErrorMessage = "An unexpected error occurred"

// MapError maps an error to the status and user message of the error page.
// Errors that are not an AppError never reveal their text.
func MapError(err error) (int, string) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, defaultErrorMessage
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	message := appErr.Message
	if message == "" {
		message = defaultErrorMessage
	}
	return status, message
}
