// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/auth"
	"github.com/jeranaias/ava-tui/internal/config"
	"github.com/jeranaias/ava-tui/internal/logging"
	"github.com/jeranaias/ava-tui/internal/model"
	"github.com/jeranaias/ava-tui/internal/ui/chat"
	"github.com/jeranaias/ava-tui/internal/ui/components"
	"github.com/jeranaias/ava-tui/internal/ui/home"
	"github.com/jeranaias/ava-tui/internal/ui/login"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// Route paths.
const (
	RouteHome  = login.RouteHome
	RouteLogin = login.RouteLogin
)

// AuthCheckTimeout bounds the startup session check.
const AuthCheckTimeout = 10 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// AuthCheckedMsg carries the result of the startup session check.
type AuthCheckedMsg struct {
	User *api.User
	Err  error
}

// ConfigReloadedMsg is delivered when the watched config file changes.
type ConfigReloadedMsg struct {
	Update config.Update
}

// watchConfig waits for the next reload. A closed watcher ends the loop.
func watchConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-w.Updates()
		if !ok {
			return nil
		}
		return ConfigReloadedMsg{Update: u}
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Deps are the collaborators of the root model. A nil Config means the
// process-wide one from config.Global.
type Deps struct {
	Auth    *auth.Manager
	Client  chat.Client
	Store   *model.Store
	Config  *config.Config
	Theme   *styles.Theme
	Watcher *config.Watcher
}

// Model is the root model.
type Model struct {
	auth    *auth.Manager
	store   *model.Store
	theme   *styles.Theme
	watcher *config.Watcher

	route   string
	checked bool
	login   login.Model
	home    home.Model
	toasts  *components.ToastManager

	width  int
	height int
}

// New wires the pages together. Auth, Client and Store are required.
func New(d Deps) Model {
	if d.Auth == nil || d.Client == nil || d.Store == nil {
		panic("app: New requires Auth, Client and Store")
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.Global()
	}
	theme := d.Theme
	if theme == nil {
		theme = styles.NewThemeForMode(cfg.UI.Theme)
	}

	widget := chat.New(d.Store, d.Client,
		chat.WithTheme(theme),
		chat.WithTimeout(cfg.API.Timeout()),
		chat.WithUIConfig(cfg.UI),
	)

	return Model{
		auth:    d.Auth,
		store:   d.Store,
		theme:   theme,
		watcher: d.Watcher,
		route:   RouteHome,
		login:   login.New(d.Auth, theme).WithTimeout(cfg.API.Timeout()),
		home:    home.New(widget, d.Auth, theme),
		toasts:  components.NewToastManager(),
		width:   80,
		height:  24,
	}
}

// Route returns the current path.
func (m Model) Route() string { return m.route }

// Page names the page the current route renders: "home" or "login".
func (m Model) Page() string {
	if m.route == RouteHome && m.auth.Authenticated() {
		return "home"
	}
	return "login"
}

// Toasts returns the visible toasts.
func (m Model) Toasts() []components.Toast { return m.toasts.Toasts() }

// Home returns the Home page.
func (m Model) Home() home.Model { return m.home }

// Login returns the Login page.
func (m Model) Login() login.Model { return m.login }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init runs the session check and starts the background tickers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.checkAuth(),
		components.ToastTickCmd(),
		m.login.Init(),
		watchConfig(m.watcher),
	)
}

func (m Model) checkAuth() tea.Cmd {
	a := m.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), AuthCheckTimeout)
		defer cancel()
		u, err := a.Check(ctx)
		return AuthCheckedMsg{User: u, Err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+x":
			m.toasts.DismissNewest()
			return m, nil
		}
		return m.updatePage(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		return m.broadcast(msg)

	case AuthCheckedMsg:
		m.checked = true
		if msg.Err == nil && msg.User != nil {
			m.home = m.home.WithEmail(msg.User.Email)
			logging.Info("session restored", "email", msg.User.Email)
		}
		return m, nil

	case login.NavigateMsg:
		m.route = msg.Path
		if msg.Path == RouteHome {
			m.home = m.home.WithEmail(m.auth.Email())
		}
		logging.Debug("navigate", "route", msg.Path)
		return m, nil

	case home.LoggedOutMsg:
		m.store.Replace(nil)
		m.home = m.home.Reset()
		if msg.Err != nil {
			m.toasts.AddError(api.ErrorDetail(msg.Err, "Error logging out"))
		}
		return m, nil

	case components.ToastMsg:
		m.toasts.Add(toastFor(msg))
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case ConfigReloadedMsg:
		return m.handleConfigReload(msg)
	}

	return m.broadcast(msg)
}

// updatePage sends a key to the page on screen only.
func (m Model) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.Page() == "home" {
		m.home, cmd = m.home.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// broadcast sends a non-key message to both pages so in-flight work
// finishes even if the route changed meanwhile.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var c1, c2 tea.Cmd
	m.login, c1 = m.login.Update(msg)
	m.home, c2 = m.home.Update(msg)
	return m, tea.Batch(c1, c2)
}

func (m Model) handleConfigReload(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	next := watchConfig(m.watcher)
	if msg.Update.Err != nil {
		logging.Warn("config reload failed", "error", msg.Update.Err)
		m.toasts.AddWarning(fmt.Sprintf("Config not reloaded: %v", msg.Update.Err))
		return m, next
	}
	cfg := msg.Update.Config
	config.SetGlobal(cfg)
	m.home = m.home.Reconfigure(
		chat.WithTimeout(cfg.API.Timeout()),
		chat.WithUIConfig(cfg.UI),
	)
	logging.Info("config reloaded", "typing_interval_ms", cfg.UI.TypingIntervalMs)
	m.toasts.AddStatus("Config reloaded")
	return m, next
}

func toastFor(msg components.ToastMsg) components.Toast {
	switch msg.Kind {
	case components.ToastKindError:
		return components.NewErrorToast(msg.Message)
	case components.ToastKindWarning:
		return components.NewWarningToast(msg.Message)
	case components.ToastKindSuccess:
		return components.NewSuccessToast(msg.Message)
	default:
		return components.NewStatusToast(msg.Message)
	}
}

// View renders the current page with toasts beneath it.
func (m Model) View() string {
	var page string
	if m.Page() == "home" {
		page = m.home.View()
	} else {
		page = m.login.View()
	}
	toasts := m.toasts.Toasts()
	if len(toasts) == 0 {
		return page
	}
	return lipgloss.JoinVertical(lipgloss.Left, page, components.RenderToastStack(toasts, m.width))
}
