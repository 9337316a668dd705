// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for common API failures. *APIError unwraps to one of these
// when the status code matches, so errors.Is works on either form.
var (
	// ErrUnauthorized indicates a missing or expired session (HTTP 401/403).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the addressed message or route does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the server rejected the request body (HTTP 400/422).
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited indicates the server throttled the client.
	ErrRateLimited = errors.New("rate limited")

	// ErrResponseTooLarge indicates the body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// APIError represents a non-2xx response from the Ava API.
type APIError struct {
	Status int
	// Detail is the server's human-readable message, if it sent one.
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error (HTTP %d)", e.Status)
}

// Unwrap maps the status code to a sentinel error.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

// errorBody is the FastAPI error envelope. Detail is either a string or a
// list of validation items.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// parseDetail extracts the human-readable detail from an error body.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []validationItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil && len(items) > 0 {
		return strings.TrimSpace(items[0].Msg)
	}
	return ""
}

// handleErrorResponse converts a non-2xx response into *APIError.
func handleErrorResponse(statusCode int, body []byte) error {
	return &APIError{Status: statusCode, Detail: parseDetail(body)}
}

// ErrorDetail returns the message to show for err: the server's detail when
// present, fallback otherwise.
func ErrorDetail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsUnauthorized reports whether err means the session is not valid.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
