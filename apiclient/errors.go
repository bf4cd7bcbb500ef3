// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportErrorMessage is the display text for requests that never
// produced an HTTP response (DNS failure, refused connection, timeout).
const TransportErrorMessage = "Unable to reach the server. Check your connection and try again."

// Error is a normalized API failure. Callers can use errors.As to
// extract the status:
//
//	var apiErr *apiclient.Error
//	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
//	    ...
//	}
type Error struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Message is the human-readable failure text shown to the operator.
	// For server errors it is the server's message verbatim.
	Message string

	// Err is the underlying cause for transport and decoding failures.
	Err error
}

// Error returns Message alone. The console displays errors verbatim, so
// no package prefix or status decoration is added here.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an *Error with status 401.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is an *Error with status 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not
// an *Error or no response was received.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// errorBody is the union of the error shapes the server produces:
// controller error records use "message", framework errors also carry
// "error" (the status reason phrase).
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusError builds the *Error for a non-2xx response.
func statusError(status int, body errorBody) *Error {
	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &Error{Status: status, Message: message}
}
