// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// APIError represents a classified failure from the DriverEdOS backend.
// Status is 0 for transport-level failures (connection refused, DNS, timeout).
type APIError struct {
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsTransport reports whether err is a network-level failure with no
// HTTP status attached.
func IsTransport(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 0
	}
	return false
}

// IsUnauthorized reports whether err carries a 401 status.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err carries a 404 status.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsRateLimited reports whether err carries a 429 status.
func IsRateLimited(err error) bool {
	return statusOf(err) == http.StatusTooManyRequests
}

// StatusOf returns the HTTP status carried by err, or 0 when err is nil,
// not an APIError, or a transport failure.
func StatusOf(err error) int {
	return statusOf(err)
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
