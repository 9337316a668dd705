// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package home

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ava-tui/internal/ui/chat"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// Page texts.
const (
	Title        = "Welcome to Ava"
	SectionTitle = "Chat with Ava"
	Instructions = "Press ctrl+o to open the chat in the bottom right corner and get started!"
)

// LogoutTimeout bounds the logout call.
const LogoutTimeout = 10 * time.Second

// Deauthenticator ends the session. *auth.Manager satisfies it.
type Deauthenticator interface {
	Logout(ctx context.Context) error
}

// LoggedOutMsg reports that the local session is gone. Err is the server's
// answer, shown but otherwise ignored.
type LoggedOutMsg struct {
	Err error
}

// LogoutCmd ends the session.
func LogoutCmd(d Deauthenticator) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), LogoutTimeout)
		defer cancel()
		return LoggedOutMsg{Err: d.Logout(ctx)}
	}
}

// Model is the Home page.
type Model struct {
	chat   chat.Model
	auth   Deauthenticator
	theme  *styles.Theme
	email  string
	width  int
	height int
}

// New creates the page around an already constructed widget.
func New(widget chat.Model, d Deauthenticator, theme *styles.Theme) Model {
	if d == nil {
		panic("home: New called with nil Deauthenticator")
	}
	if theme == nil {
		theme = styles.NewTheme()
	}
	return Model{chat: widget, auth: d, theme: theme, width: 80, height: 24}
}

// WithEmail shows who is logged in.
func (m Model) WithEmail(email string) Model {
	m.email = email
	return m
}

// Reset returns the page to its first-visit state after a logout: nobody
// signed in and the widget closed, so the next user's first open fetches.
func (m Model) Reset() Model {
	m.chat.Reset()
	m.email = ""
	return m
}

// Reconfigure applies options to the mounted widget.
func (m Model) Reconfigure(opts ...chat.Option) Model {
	m.chat.Apply(opts...)
	return m
}

// Chat returns the mounted widget.
func (m Model) Chat() chat.Model { return m.chat }

// Init initializes the widget.
func (m Model) Init() tea.Cmd {
	return m.chat.Init()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+l" {
			return m, LogoutCmd(m.auth)
		}
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// View renders the page with the widget in the bottom-right corner.
func (m Model) View() string {
	t := m.theme

	top := []string{
		t.PageHeader.Render(Title),
		t.PageSection.Render(SectionTitle),
		t.PageText.Render(Instructions),
	}
	if m.email != "" {
		top = append(top, t.Muted.Render("Signed in as "+m.email))
	}
	top = append(top, "",
		t.ShortcutKey.Render("C-o")+t.ShortcutDesc.Render(" chat  ")+
			t.ShortcutKey.Render("C-l")+t.ShortcutDesc.Render(" log out  ")+
			t.ShortcutKey.Render("C-c")+t.ShortcutDesc.Render(" quit"))
	header := t.App.Render(lipgloss.JoinVertical(lipgloss.Left, top...))

	widget := m.chat.View()
	if m.chat.IsExpanded() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, widget)
	}

	rest := m.height - lipgloss.Height(header)
	if rest < lipgloss.Height(widget) {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.PlaceHorizontal(m.width, lipgloss.Right, widget))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header,
		lipgloss.Place(m.width, rest, lipgloss.Right, lipgloss.Bottom, widget))
}
