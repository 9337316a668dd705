// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package home

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/model"
	"github.com/jeranaias/ava-tui/internal/ui/chat"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

type logoutFunc func(context.Context) error

func (f logoutFunc) Logout(ctx context.Context) error { return f(ctx) }

func newPage(t *testing.T, logout logoutFunc) Model {
	t.Helper()
	theme := styles.NewThemeForMode(styles.ModeDark)
	widget := chat.New(model.NewStore(), api.New("http://127.0.0.1:1", nil), chat.WithTheme(theme))
	return New(widget, logout, theme)
}

func TestNew_NilPanics(t *testing.T) {
	widget := chat.New(model.NewStore(), api.New("http://127.0.0.1:1", nil))
	assert.Panics(t, func() { New(widget, nil, nil) })
}

func TestView_ShowsLandingAndClosedWidget(t *testing.T) {
	m := newPage(t, func(context.Context) error { return nil }).WithEmail("user@example.com")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, Title)
	assert.Contains(t, view, SectionTitle)
	assert.Contains(t, view, "user@example.com")
	assert.Contains(t, view, chat.ToggleLabel)
}

func TestCtrlL_LogsOut(t *testing.T) {
	called := 0
	m := newPage(t, func(context.Context) error {
		called++
		return errors.New("server gone")
	})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)
	msg, ok := cmd().(LoggedOutMsg)
	require.True(t, ok)
	assert.EqualError(t, msg.Err, "server gone")
	assert.Equal(t, 1, called)
}

func TestKeysReachWidget(t *testing.T) {
	m := newPage(t, func(context.Context) error { return nil })
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.True(t, m.Chat().IsOpen())
}

func TestReset_ClosesWidgetAndForgetsUser(t *testing.T) {
	m := newPage(t, func(context.Context) error { return nil }).WithEmail("user@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.True(t, m.Chat().IsExpanded())
	before := m.Chat().Session()

	m = m.Reset()

	assert.False(t, m.Chat().IsOpen())
	assert.False(t, m.Chat().IsExpanded())
	assert.Greater(t, m.Chat().Session(), before)
	assert.NotContains(t, m.View(), "user@example.com")
}
