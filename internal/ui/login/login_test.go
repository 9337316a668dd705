// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/auth"
	"github.com/jeranaias/ava-tui/internal/fakeapi"
	"github.com/jeranaias/ava-tui/internal/ui/components"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// recorder counts calls and returns a fixed error.
type recorder struct {
	mu        sync.Mutex
	logins    int
	registers int
	err       error
}

func (r *recorder) Login(context.Context, string, string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins++
	return r.err
}

func (r *recorder) Register(context.Context, string, string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registers++
	return r.err
}

// collect runs cmd and returns every message it produced, following
// batches and feeding SubmitResultMsg back into the page.
func collect(m *Model, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, collect(m, c)...)
		}
	case SubmitResultMsg:
		var next tea.Cmd
		*m, next = m.Update(msg)
		out = append(out, msg)
		out = append(out, collect(m, next)...)
	case NavigateMsg, components.ToastMsg:
		out = append(out, msg)
	}
	return out
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func newPage(a Authenticator) Model {
	return New(a, styles.NewThemeForMode(styles.ModeDark))
}

func TestNew_NilPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil, nil) })
}

func TestSubmit_InvalidShowsErrorsWithoutCall(t *testing.T) {
	rec := &recorder{}
	m := newPage(rec)
	m.SetCredentials("not-an-email", "short")

	cmd := m.Submit()
	assert.Nil(t, cmd)
	assert.Equal(t, auth.MsgInvalidEmail, m.Errors().Email)
	assert.Equal(t, auth.MsgInvalidPassword, m.Errors().Password)
	assert.False(t, m.Loading())
	assert.Zero(t, rec.logins)
	assert.Contains(t, m.View(), auth.MsgInvalidEmail)
}

func TestSubmit_LoginNavigatesHome(t *testing.T) {
	srv := fakeapi.New(fakeapi.WithBcryptCost(bcrypt.MinCost))
	ts := httptest.NewServer(srv)
	defer ts.Close()
	require.NoError(t, srv.AddUser("user@example.com", "password123"))

	mgr := auth.NewManager(api.New(ts.URL, nil))
	m := newPage(mgr)
	m.SetCredentials("user@example.com", "password123")

	cmd := m.Submit()
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())
	assert.Contains(t, m.View(), LoadingLabel)

	msgs := collect(&m, cmd)
	nav, ok := find[NavigateMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, RouteHome, nav.Path)
	assert.False(t, m.Loading())
	assert.True(t, mgr.Authenticated())
}

func TestSubmit_WhileLoadingIgnored(t *testing.T) {
	rec := &recorder{}
	m := newPage(rec)
	m.SetCredentials("user@example.com", "password123")

	cmd := m.Submit()
	require.NotNil(t, cmd)
	assert.Nil(t, m.Submit())

	collect(&m, cmd)
	assert.Equal(t, 1, rec.logins)
}

func TestSubmit_FailureShowsDetail(t *testing.T) {
	rec := &recorder{err: &api.APIError{Status: http.StatusUnauthorized, Detail: "Invalid email or password"}}
	m := newPage(rec)
	m.SetCredentials("user@example.com", "password123")

	msgs := collect(&m, m.Submit())
	toast, ok := find[components.ToastMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, "Invalid email or password", toast.Message)
	assert.Equal(t, components.ToastKindError, toast.Kind)
	_, navigated := find[NavigateMsg](msgs)
	assert.False(t, navigated)
	assert.False(t, m.Loading())
}

func TestSubmit_FailureWithoutDetail(t *testing.T) {
	rec := &recorder{err: context.DeadlineExceeded}
	m := newPage(rec)
	m.SetCredentials("user@example.com", "password123")

	toast, ok := find[components.ToastMsg](collect(&m, m.Submit()))
	require.True(t, ok)
	assert.Equal(t, MsgGenericFail, toast.Message)
}

func TestRegister_SwitchesToLogin(t *testing.T) {
	rec := &recorder{}
	m := newPage(rec)
	m.ToggleMode()
	require.Equal(t, ModeRegister, m.Mode())
	m.SetCredentials("new@example.com", "password123")

	msgs := collect(&m, m.Submit())
	assert.Equal(t, 1, rec.registers)
	assert.Equal(t, ModeLogin, m.Mode())

	toast, ok := find[components.ToastMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, MsgRegistered, toast.Message)
	nav, ok := find[NavigateMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, RouteLogin, nav.Path)
}

func TestToggleMode_DisabledWhileLoading(t *testing.T) {
	m := newPage(&recorder{})
	m.SetCredentials("user@example.com", "password123")
	_ = m.Submit()

	m.ToggleMode()
	assert.Equal(t, ModeLogin, m.Mode())
}

func TestKeys_TabAndCtrlR(t *testing.T) {
	m := newPage(&recorder{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a@b.co")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("secret123")})
	assert.Equal(t, "a@b.co", m.email.Value())
	assert.Equal(t, "secret123", m.password.Value())
	assert.NotContains(t, m.View(), "secret123")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, ModeRegister, m.Mode())
	assert.Contains(t, m.View(), "Already have an account? Log in")
}
