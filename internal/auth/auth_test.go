// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/fakeapi"
	"github.com/jeranaias/ava-tui/internal/session"
)

func newFake(t *testing.T) (*fakeapi.Server, string) {
	t.Helper()
	srv := fakeapi.New(fakeapi.WithBcryptCost(bcrypt.MinCost))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	require.NoError(t, srv.AddUser("user@example.com", "password123"))
	return srv, ts.URL
}

// failingAPI errors on every call.
type failingAPI struct{ err error }

func (f failingAPI) Login(context.Context, string, string) error    { return f.err }
func (f failingAPI) Register(context.Context, string, string) error { return f.err }
func (f failingAPI) Logout(context.Context) error                   { return f.err }
func (f failingAPI) CurrentUser(context.Context) (*api.User, error) { return nil, f.err }

type countingJar struct{ cleared int }

func (c *countingJar) Clear() error { c.cleared++; return nil }

// =============================================================================
// MANAGER
// =============================================================================

func TestNewManager_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewManager(nil) })
}

func TestCheck_WithoutSession(t *testing.T) {
	_, base := newFake(t)
	m := NewManager(api.New(base, nil))

	_, err := m.Check(context.Background())
	require.Error(t, err)
	assert.False(t, m.Authenticated())
}

func TestCheck_AnyErrorLogsOut(t *testing.T) {
	m := NewManager(failingAPI{err: errors.New("connection refused")})
	m.set(true, "x@example.com")

	_, err := m.Check(context.Background())
	require.Error(t, err)
	assert.False(t, m.Authenticated())
}

func TestLoginThenCheck(t *testing.T) {
	srv, base := newFake(t)
	m := NewManager(api.New(base, nil))
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "user@example.com", "password123"))
	assert.True(t, m.Authenticated())
	assert.Equal(t, "user@example.com", m.Email())

	u, err := m.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", u.Email)
	assert.Equal(t, 1, srv.Count("GET /users/me"))
}

func TestLogin_WrongPasswordKeepsFlagFalse(t *testing.T) {
	_, base := newFake(t)
	m := NewManager(api.New(base, nil))

	err := m.Login(context.Background(), "user@example.com", "wrongpass1")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.ErrorDetail(err, ""))
	assert.False(t, m.Authenticated())
}

func TestRegister_DoesNotLogIn(t *testing.T) {
	_, base := newFake(t)
	m := NewManager(api.New(base, nil))

	require.NoError(t, m.Register(context.Background(), "new@example.com", "password123"))
	assert.False(t, m.Authenticated())
}

func TestLogout_ClearsEvenOnFailure(t *testing.T) {
	jar := &countingJar{}
	m := NewManager(failingAPI{err: errors.New("boom")}, WithCookies(jar))
	m.set(true, "user@example.com")

	err := m.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, m.Authenticated())
	assert.Empty(t, m.Email())
	assert.Equal(t, 1, jar.cleared)
}

func TestLogout_EndsServerSession(t *testing.T) {
	_, base := newFake(t)
	jar, err := session.NewJar(nil, base)
	require.NoError(t, err)
	client := api.New(base, jar)
	m := NewManager(client, WithCookies(jar))
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "user@example.com", "password123"))
	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.Authenticated())

	_, err = client.CurrentUser(ctx)
	assert.True(t, api.IsUnauthorized(err))
}

func TestLogout_ServerErrorReturned(t *testing.T) {
	srv, base := newFake(t)
	m := NewManager(api.New(base, nil))
	srv.FailNext("POST /users/logout", http.StatusInternalServerError, "down")

	err := m.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, "down", api.ErrorDetail(err, ""))
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		wantEmail bool
		wantPass  bool
	}{
		{"valid", "user@example.com", "password123", false, false},
		{"padded email", "  user@example.com ", "password123", false, false},
		{"fullwidth at sign", "user＠example.com", "password123", false, false},
		{"no at", "userexample.com", "password123", true, false},
		{"no dot in domain", "user@example", "password123", true, false},
		{"space inside", "us er@example.com", "password123", true, false},
		{"two ats", "a@b@example.com", "password123", true, false},
		{"empty", "", "", true, true},
		{"short password", "user@example.com", "pass1", false, true},
		{"no digit", "user@example.com", "passwordonly", false, true},
		{"eight runes with digit", "user@example.com", "пароль12", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := ValidateCredentials(tt.email, tt.password)
			if tt.wantEmail {
				assert.Equal(t, MsgInvalidEmail, fe.Email)
			} else {
				assert.Empty(t, fe.Email)
			}
			if tt.wantPass {
				assert.Equal(t, MsgInvalidPassword, fe.Password)
			} else {
				assert.Empty(t, fe.Password)
			}
			assert.Equal(t, !tt.wantEmail && !tt.wantPass, fe.OK())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail(" ｕｓｅｒ@example.com "))
}
