// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"sync"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/logging"
)

// API is the subset of the remote API that auth needs. *api.Client
// satisfies it.
type API interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*api.User, error)
}

// CookieClearer forgets the stored session. *session.Jar satisfies it.
type CookieClearer interface {
	Clear() error
}

// Manager holds the authenticated flag.
type Manager struct {
	mu            sync.RWMutex
	api           API
	jar           CookieClearer
	authenticated bool
	email         string
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookies makes Logout wipe the given jar.
func WithCookies(jar CookieClearer) Option {
	return func(m *Manager) { m.jar = jar }
}

// NewManager creates a Manager backed by client. It panics if client is nil:
// auth state without an API is a wiring bug.
func NewManager(client API, opts ...Option) *Manager {
	if client == nil {
		panic("auth: NewManager called with nil API")
	}
	m := &Manager{api: client}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticated reports whether a session is believed to be live.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Email returns the logged-in user's email, if known.
func (m *Manager) Email() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.email
}

func (m *Manager) set(ok bool, email string) {
	m.mu.Lock()
	m.authenticated = ok
	m.email = email
	m.mu.Unlock()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Check asks the server who we are. Any error, not just 401, leaves the
// user logged out.
func (m *Manager) Check(ctx context.Context) (*api.User, error) {
	u, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.set(false, "")
		logging.Debug("session check failed", "error", err)
		return nil, err
	}
	m.set(true, u.Email)
	return u, nil
}

// Login starts a session. Errors are returned unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := m.api.Login(ctx, email, password); err != nil {
		return err
	}
	m.set(true, email)
	logging.Info("logged in", "email", email)
	return nil
}

// Register creates an account without logging in.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	if err := m.api.Register(ctx, email, password); err != nil {
		return err
	}
	logging.Info("registered", "email", email)
	return nil
}

// Logout ends the session. Local state is cleared even when the server call
// fails; the server error is still returned so it can be shown.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.api.Logout(ctx)
	if m.jar != nil {
		if cerr := m.jar.Clear(); cerr != nil {
			logging.Warn("failed to clear session cookies", "error", cerr)
		}
	}
	m.set(false, "")
	if err != nil {
		logging.Error("logout failed", "error", err)
	}
	return err
}
