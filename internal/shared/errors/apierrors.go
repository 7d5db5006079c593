package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Remote API error codes reported in the response envelope.
const (
	CodeMaxActivations     = 1
	CodeInvalidLocation    = 2
	CodeNoLocation         = 3
	CodeInvalidActivation  = 4
	CodeNoActivationID     = 5
	CodeInvalidKey         = 6
	CodeInvalidUpgradePath = 7
	CodeNoRelease          = 8
	CodeInvalidDownload    = 9
	CodeUnexpectedValue    = 10
	CodeNotFound           = http.StatusNotFound
	CodeUnknown            = http.StatusInternalServerError
)

// APIError is an application error that carries the numeric code surfaced to
// remote installations alongside the HTTP status.
type APIError struct {
	*AppError
	// APICode is the envelope error code
	APICode int
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.APICode, e.AppError.Message)
}

// Unwrap allows errors.Is and errors.As to reach the AppError
func (e *APIError) Unwrap() error {
	return e.AppError
}

// Status returns the HTTP status for the error
func (e *APIError) Status() int {
	if e.AppError == nil || e.AppError.Code == 0 {
		return http.StatusBadRequest
	}
	return e.AppError.Code
}

// NewAPIError creates a 400-class API error for a well-known input condition
func NewAPIError(code int, message string) *APIError {
	return &APIError{
		AppError: &AppError{
			Type:    ErrorTypeBadRequest,
			Message: message,
			Code:    http.StatusBadRequest,
		},
		APICode: code,
	}
}

// NewDomainAPIError creates an API error for a domain-state condition such as
// a key reaching its activation limit
func NewDomainAPIError(code int, message string) *APIError {
	return &APIError{
		AppError: &AppError{
			Type:    ErrorTypeConflict,
			Message: message,
			Code:    http.StatusBadRequest,
		},
		APICode: code,
	}
}

// NewAuthAPIError creates a 401 API error
func NewAuthAPIError(code int, message string) *APIError {
	return &APIError{
		AppError: &AppError{
			Type:    ErrorTypeUnauthorized,
			Message: message,
			Code:    http.StatusUnauthorized,
		},
		APICode: code,
	}
}

// GetAPIError extracts an APIError from err
func GetAPIError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
