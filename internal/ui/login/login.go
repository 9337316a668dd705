// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/auth"
	"github.com/jeranaias/ava-tui/internal/logging"
	"github.com/jeranaias/ava-tui/internal/ui/components"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// Texts shown by the page.
const (
	MsgRegistered  = "Registration successful! Please log in to continue."
	MsgGenericFail = "An error occurred"
	LoadingLabel   = "Loading..."
)

// Routes the page navigates to.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// DefaultTimeout bounds a login or register call.
const DefaultTimeout = 30 * time.Second

// Mode selects what the form submits.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// String returns the form title for the mode.
func (m Mode) String() string {
	if m == ModeRegister {
		return "Register"
	}
	return "Login"
}

// Focusable controls, in tab order.
const (
	focusEmail = iota
	focusPassword
	focusSubmit
	focusToggle
	focusCount
)

// =============================================================================
// MESSAGES
// =============================================================================

// NavigateMsg asks the root model to switch routes.
type NavigateMsg struct {
	Path string
}

// Navigate returns a command emitting NavigateMsg.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// SubmitResultMsg carries the outcome of a login or register call.
type SubmitResultMsg struct {
	Mode Mode
	Err  error
}

// Authenticator is what the page needs from auth. *auth.Manager satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Login page.
type Model struct {
	auth    Authenticator
	theme   *styles.Theme
	timeout time.Duration

	mode     Mode
	email    textinput.Model
	password textinput.Model
	focus    int
	errors   auth.FieldErrors
	loading  bool
	spinner  components.Spinner

	width  int
	height int
}

// New creates the page. It panics on a nil Authenticator.
func New(a Authenticator, theme *styles.Theme) Model {
	if a == nil {
		panic("login: New called with nil Authenticator")
	}
	if theme == nil {
		theme = styles.NewTheme()
	}

	email := textinput.New()
	email.Placeholder = "Email"
	email.Prompt = ""
	email.CharLimit = 254
	email.Width = 32
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128
	password.Width = 32

	return Model{
		auth:     a,
		theme:    theme,
		timeout:  DefaultTimeout,
		email:    email,
		password: password,
		spinner:  components.NewSpinner(LoadingLabel),
	}
}

// WithTimeout bounds each call.
func (m Model) WithTimeout(d time.Duration) Model {
	if d > 0 {
		m.timeout = d
	}
	return m
}

// Mode returns the current form mode.
func (m Model) Mode() Mode { return m.mode }

// Loading reports whether a submit is in flight.
func (m Model) Loading() bool { return m.loading }

// Errors returns the field-level validation messages.
func (m Model) Errors() auth.FieldErrors { return m.errors }

// SetCredentials fills the form.
func (m *Model) SetCredentials(email, password string) {
	m.email.SetValue(email)
	m.password.SetValue(password)
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SubmitResultMsg:
		return m.handleResult(msg)

	default:
		var cmds [3]tea.Cmd
		m.spinner, cmds[0] = m.spinner.Update(msg)
		m.email, cmds[1] = m.email.Update(msg)
		m.password, cmds[2] = m.password.Update(msg)
		return m, tea.Batch(cmds[:]...)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+r":
		m.ToggleMode()
		return m, nil
	case "enter":
		if m.focus == focusToggle {
			m.ToggleMode()
			return m, nil
		}
		cmd := m.Submit()
		return m, cmd
	}

	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
	case focusPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	switch f {
	case focusEmail:
		m.email.Focus()
	case focusPassword:
		m.password.Focus()
	}
}

// ToggleMode switches between login and register. Disabled while loading.
func (m *Model) ToggleMode() {
	if m.loading {
		return
	}
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
	}
	m.errors = auth.FieldErrors{}
}

// Submit validates the form and, if valid, calls the API.
func (m *Model) Submit() tea.Cmd {
	if m.loading {
		return nil
	}
	m.errors = auth.ValidateCredentials(m.email.Value(), m.password.Value())
	if !m.errors.OK() {
		return nil
	}

	m.loading = true
	email := auth.NormalizeEmail(m.email.Value())
	password := m.password.Value()
	mode := m.mode
	a, timeout := m.auth, m.timeout

	submit := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		if mode == ModeRegister {
			err = a.Register(ctx, email, password)
		} else {
			err = a.Login(ctx, email, password)
		}
		return SubmitResultMsg{Mode: mode, Err: err}
	}
	return tea.Batch(m.spinner.Start(), submit)
}

func (m Model) handleResult(msg SubmitResultMsg) (Model, tea.Cmd) {
	m.loading = false
	m.spinner.Stop()

	if msg.Err != nil {
		text := api.ErrorDetail(msg.Err, MsgGenericFail)
		logging.Error("auth request failed", "mode", msg.Mode.String(), "error", msg.Err)
		return m, components.ShowError(text)
	}

	if msg.Mode == ModeRegister {
		m.mode = ModeLogin
		m.password.Reset()
		return m, tea.Batch(
			components.ShowToast(components.ToastKindSuccess, MsgRegistered),
			Navigate(RouteLogin),
		)
	}
	m.password.Reset()
	return m, Navigate(RouteHome)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the page.
func (m Model) View() string {
	t := m.theme

	intro := lipgloss.JoinVertical(lipgloss.Left,
		t.PageTitle.Render("Welcome Back!"),
		t.PageText.Render("Log in to your account to continue."),
	)

	field := func(label string, in textinput.Model, focused bool, errText string) string {
		box := t.FieldBlurred
		if focused {
			box = t.FieldFocused
		}
		rows := []string{t.FieldLabel.Render(label), box.Render(in.View())}
		if errText != "" {
			rows = append(rows, t.FieldError.Render(errText))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	var button string
	switch {
	case m.loading:
		button = t.ButtonDisabled.Render(m.spinner.View())
	case m.focus == focusSubmit:
		button = t.ButtonFocused.Render(m.mode.String())
	default:
		button = t.Button.Render(m.mode.String())
	}

	toggleText := "Create an account"
	if m.mode == ModeRegister {
		toggleText = "Already have an account? Log in"
	}
	toggle := t.LinkStyle.Render(toggleText)
	if m.loading {
		toggle = t.Muted.Render(toggleText)
	} else if m.focus == focusToggle {
		toggle = t.ShortcutKey.Render("> ") + toggle
	}

	form := t.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		t.FormTitle.Render(m.mode.String()),
		field("Email", m.email, m.focus == focusEmail, m.errors.Email),
		"",
		field("Password", m.password, m.focus == focusPassword, m.errors.Password),
		"",
		button,
		"",
		toggle,
	))

	hints := t.ShortcutKey.Render("Tab") + t.ShortcutDesc.Render(" next  ") +
		t.ShortcutKey.Render("Enter") + t.ShortcutDesc.Render(" submit  ") +
		t.ShortcutKey.Render("C-r") + t.ShortcutDesc.Render(" login/register  ") +
		t.ShortcutKey.Render("C-c") + t.ShortcutDesc.Render(" quit")

	var body string
	if m.width >= 80 {
		body = lipgloss.JoinHorizontal(lipgloss.Center, lipgloss.NewStyle().Width(36).Render(intro), form)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, intro, "", form)
	}
	return strings.TrimRight(t.App.Render(lipgloss.JoinVertical(lipgloss.Left, body, "", hints)), "\n")
}
