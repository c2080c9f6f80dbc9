package domain

import (
	"fmt"
	"net/http"
)

// ErrorType categorizes connector failures.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or unsupported request.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"

	// ErrorTypeNotFound indicates a backing resource is absent.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeMalformedData indicates a backing resource exists but cannot
	// be parsed into the expected record shape.
	ErrorTypeMalformedData ErrorType = "malformed_data"

	// ErrorTypeUpstream indicates a failure in the external inference API.
	ErrorTypeUpstream ErrorType = "upstream"

	// ErrorTypeServer indicates an internal failure.
	ErrorTypeServer ErrorType = "server"
)

// QueryError is the canonical error returned by connector components. The API
// layer translates it into an HTTP error response; the core pipeline never
// catches or retries it.
type QueryError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Param   string    `json:"param,omitempty"`
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// HTTPStatusCode maps the error type to a response status.
func (e *QueryError) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeMalformedData:
		return http.StatusUnprocessableEntity
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithParam attaches the offending parameter name.
func (e *QueryError) WithParam(param string) *QueryError {
	e.Param = param
	return e
}

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(format string, args ...any) *QueryError {
	return &QueryError{Type: ErrorTypeInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// ErrResourceNotFound creates a missing backing resource error.
func ErrResourceNotFound(format string, args ...any) *QueryError {
	return &QueryError{Type: ErrorTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// ErrMalformedData creates an unparseable backing resource error.
func ErrMalformedData(format string, args ...any) *QueryError {
	return &QueryError{Type: ErrorTypeMalformedData, Message: fmt.Sprintf(format, args...)}
}

// ErrUpstream creates an external inference API error.
func ErrUpstream(format string, args ...any) *QueryError {
	return &QueryError{Type: ErrorTypeUpstream, Message: fmt.Sprintf(format, args...)}
}

// ErrServer creates an internal error.
func ErrServer(format string, args ...any) *QueryError {
	return &QueryError{Type: ErrorTypeServer, Message: fmt.Sprintf(format, args...)}
}
