// Package errors provides custom error types for the analysis client.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrPageOutOfRange = errors.New("page out of range")
	ErrBusy           = errors.New("an analysis is already in progress")
	ErrNoReport       = errors.New("no report in session")
	ErrInvalidTicker  = errors.New("invalid ticker")
	ErrNoMatch        = errors.New("no matching company")
	ErrAmbiguous      = errors.New("company name matches more than one ticker")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrDatabaseError  = errors.New("database error")
	ErrInvalidPayload = errors.New("invalid response from server")
)

// NetworkError is returned when no HTTP response was obtained at all:
// DNS failure, refused connection, reset, or a cancelled context.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("unable to reach analysis service (%s): %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError.
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{
		Endpoint: endpoint,
		Err:      err,
	}
}

// ServerError represents a rejection by the analysis service. Message is the
// server-provided text when there was one, so Error() returns it verbatim.
type ServerError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *ServerError) Error() string {
	return e.Message
}

// NewServerError creates a new ServerError.
func NewServerError(endpoint string, status int, message string) *ServerError {
	return &ServerError{
		Endpoint: endpoint,
		Status:   status,
		Message:  message,
	}
}

// ValidationError represents a well-formed success response that lacks a
// required field, or user input that fails validation.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Kind is the user-facing category of a failed call.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindServer     Kind = "server"
	KindValidation Kind = "validation"
	KindOther      Kind = "other"
)

// KindOf classifies err into one of the three client failure categories.
func KindOf(err error) Kind {
	var netErr *NetworkError
	var srvErr *ServerError
	var valErr *ValidationError
	switch {
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &srvErr):
		return KindServer
	case errors.As(err, &valErr):
		return KindValidation
	default:
		return KindOther
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
