// Package errors provides the error kinds shared by the listing catalog,
// its HTTP handlers and the remote catalog client. Callers check kinds with
// errors.Is against the sentinels and reach the details with errors.As.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// New is the standard library errors.New, re-exported for convenience.
var New = errors.New

// Is and As are re-exported so callers need a single import.
var (
	Is = errors.Is
	As = errors.As
)

// Sentinel error kinds.
var (
	// ErrValidation indicates the input failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrRequestFailed indicates a remote catalog call failed.
	ErrRequestFailed = errors.New("request failed")

	// ErrPayloadTooLarge indicates an image or request body exceeded its ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNotFound indicates a requested listing does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// RequestError describes a failed call against a remote catalog.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// NewRequestError creates a RequestError wrapping cause.
func NewRequestError(method, url string, statusCode int, cause error) *RequestError {
	if cause == nil {
		cause = ErrRequestFailed
	}
	return &RequestError{Method: method, URL: url, StatusCode: statusCode, Err: cause}
}

// PayloadTooLargeError reports a payload exceeding its configured ceiling.
// Size is -1 when the exact size is unknown (for example a 413 from a server).
type PayloadTooLargeError struct {
	What  string
	Size  int64
	Limit int64
}

// Error implements the error interface
func (e *PayloadTooLargeError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("%s exceeds the limit of %d bytes", e.What, e.Limit)
	}
	return fmt.Sprintf("%s is %d bytes, limit is %d bytes", e.What, e.Size, e.Limit)
}

// Is implements errors.Is support
func (e *PayloadTooLargeError) Is(target error) bool {
	return target == ErrPayloadTooLarge
}

// NewPayloadTooLargeError creates a PayloadTooLargeError.
func NewPayloadTooLargeError(what string, size, limit int64) *PayloadTooLargeError {
	return &PayloadTooLargeError{What: what, Size: size, Limit: limit}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}
