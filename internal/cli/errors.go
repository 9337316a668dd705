// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates a missing or rejected session
	ExitAuthError = 4
	// ExitNetworkError indicates the API could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a message id the server does not know
	ExitNotFoundError = 6
	// ExitTimeoutError indicates a request ran out of time
	ExitTimeoutError = 7
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports bad arguments or input rejected before any request.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return e.Reason }

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in; run 'ava login' first")

// requireSession turns a 401 from the API into ErrNotLoggedIn.
func requireSession(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return fmt.Errorf("%w (%s)", ErrNotLoggedIn, api.ErrorDetail(err, "unauthorized"))
	}
	return err
}

// apiFailure wraps a failed request with the action it was part of.
func apiFailure(action string, err error) error {
	if e := requireSession(err); errors.Is(e, ErrNotLoggedIn) {
		return e
	}
	return fmt.Errorf("%s: %w", action, err)
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}

	var verrs config.ValidateErrors
	var verr config.ValidationError
	if errors.As(err, &verrs) || errors.As(err, &verr) {
		return ExitConfigError
	}

	if errors.Is(err, ErrNotLoggedIn) || api.IsUnauthorized(err) {
		return ExitAuthError
	}
	if errors.Is(err, api.ErrNotFound) {
		return ExitNotFoundError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeoutError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ExitTimeoutError
		}
		return ExitNetworkError
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ExitNetworkError
	}

	return ExitGeneralError
}
