// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/mayuran19/mms-console/apiclient"
	"github.com/mayuran19/mms-console/lib/resource"
)

// ErrorCategory classifies command errors so that scripts can decide
// (retry, fix input, log in) without parsing message text. The
// category determines the process exit code.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing arguments, unknown flags, values the server rejected.
	CategoryValidation ErrorCategory = "validation"

	// CategoryUnauthenticated indicates there is no usable session.
	// The caller should log in and retry.
	CategoryUnauthenticated ErrorCategory = "unauthenticated"

	// CategoryNotFound indicates a referenced resource does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the session lacks permission for the
	// requested operation.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the operation conflicts with existing
	// state, such as a duplicate slug or email.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, a 5xx from the server. The caller may retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected local failure.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation:      2,
	CategoryUnauthenticated: 3,
	CategoryNotFound:        4,
	CategoryForbidden:       5,
	CategoryConflict:        6,
	CategoryTransient:       7,
	CategoryInternal:        1,
}

// ToolError is a categorized error returned by CLI commands. It wraps
// an inner error, preserving the full chain for errors.Is and
// errors.As. Use the category-specific constructors rather than
// constructing ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode is the process exit code for the category. main uses it
// after printing the message.
func (e *ToolError) ExitCode() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Unauthenticated creates an error for a missing or expired session.
func Unauthenticated(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryUnauthenticated, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPI categorizes an error returned by the API client. action
// prefixes the message ("creating tenant: Tenant slug already exists").
// A nil err returns nil.
func FromAPI(action string, err error) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return err
	}
	var missing *resource.ValidationError
	if errors.As(err, &missing) {
		return &ToolError{Category: CategoryValidation, Err: fmt.Errorf("%s: %w", action, err)}
	}

	category := CategoryInternal
	switch status := apiclient.StatusOf(err); {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		category = CategoryValidation
	case status == http.StatusUnauthorized:
		category = CategoryUnauthenticated
	case status == http.StatusForbidden:
		category = CategoryForbidden
	case status == http.StatusNotFound:
		category = CategoryNotFound
	case status == http.StatusConflict:
		category = CategoryConflict
	case status == http.StatusTooManyRequests || status >= 500:
		category = CategoryTransient
	case status == 0 && isNetworkError(err):
		category = CategoryTransient
	}
	return &ToolError{Category: category, Err: fmt.Errorf("%s: %w", action, err)}
}

func isNetworkError(err error) bool {
	var netError net.Error
	return errors.As(err, &netError) || errors.Is(err, context.DeadlineExceeded)
}
