package api

import (
	"errors"
	"fmt"
)

// HTTP-like status codes carried by API errors.
const (
	StatusBadRequest   = 400
	StatusUnauthorized = 401
	StatusNotFound     = 404
	StatusConflict     = 409
	StatusInternal     = 500
)

// Error is the one error type the API layer raises. Layers below signal
// their conditions with nil/false returns; only here do they become typed,
// status-carrying errors.
type Error struct {
	Status  int
	Message string
	Data    any
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func badRequest(msg string) *Error   { return &Error{Status: StatusBadRequest, Message: msg} }
func unauthorized(msg string) *Error { return &Error{Status: StatusUnauthorized, Message: msg} }
func notFound(msg string) *Error     { return &Error{Status: StatusNotFound, Message: msg} }
func conflict(msg string) *Error     { return &Error{Status: StatusConflict, Message: msg} }
func internal(msg string) *Error     { return &Error{Status: StatusInternal, Message: msg} }

// StatusOf extracts the status code from err, defaulting to 500 for
// anything that is not an *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return StatusInternal
}
