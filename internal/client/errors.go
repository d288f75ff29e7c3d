package client

import (
	"fmt"

	"subtrack/internal/models"
)

// NetworkError wraps a request that never completed.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError carries the server's field-keyed rejection messages.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

// NotFoundError reports a missing subscription.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// DataShapeError reports a list response that was neither a bare array nor
// an object wrapping one under a results key.
type DataShapeError struct {
	Got string
}

func (e *DataShapeError) Error() string {
	return "unexpected data shape for subscription list: " + e.Got
}

// APIError is any other non-success status from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}
