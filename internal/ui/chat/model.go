// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/config"
	"github.com/jeranaias/ava-tui/internal/logging"
	"github.com/jeranaias/ava-tui/internal/model"
	"github.com/jeranaias/ava-tui/internal/ui/components"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
	"github.com/jeranaias/ava-tui/internal/util"
)

// Notification texts.
const (
	ErrFetch         = "Error fetching messages"
	ErrSend          = "Error sending message"
	ErrEdit          = "Error editing message"
	ErrDelete        = "Error deleting message"
	ErrEmptyEdit     = "Message content cannot be empty."
	InputPlaceholder = "Type a message..."
)

// DefaultTimeout bounds each API call made by the widget.
const DefaultTimeout = 30 * time.Second

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat widget.
type Model struct {
	// Dependencies
	store  *model.Store
	client Client
	theme  *styles.Theme
	keys   KeyMap

	// Visibility
	open     bool
	expanded bool

	// Composition
	input   textinput.Model
	sending bool
	spinner components.Spinner

	// Per-message UI state
	selectedID string
	menuFor    string
	editingID  string
	editInput  textinput.Model
	editing    bool

	// Typing reveal
	typingID       string
	typingInterval time.Duration

	// Bumped by Reset. Results from an older session are dropped.
	session uint64

	// Rendering
	viewport       viewport.Model
	markdown       *markdownRenderer
	showTimestamps bool
	lastVersion    uint64
	now            func() time.Time

	timeout time.Duration
	width   int
	height  int
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the theme.
func WithTheme(theme *styles.Theme) Option {
	return func(m *Model) { m.theme = theme }
}

// WithTypingInterval sets the delay between revealed characters.
func WithTypingInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.typingInterval = d
		}
	}
}

// WithTimeout bounds each API call.
func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithMarkdown toggles glamour rendering of bot replies.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) {
		if enabled {
			m.markdown = &markdownRenderer{}
		} else {
			m.markdown = nil
		}
	}
}

// WithTimestamps toggles relative timestamps under each message.
func WithTimestamps(enabled bool) Option {
	return func(m *Model) { m.showTimestamps = enabled }
}

// WithClock replaces time.Now for relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithUIConfig applies the ui section of the config file.
func WithUIConfig(cfg config.UIConfig) Option {
	return func(m *Model) {
		WithTypingInterval(cfg.TypingInterval())(m)
		WithMarkdown(cfg.Markdown)(m)
		WithTimestamps(cfg.ShowTimestamps)(m)
	}
}

// New creates a closed widget over store and client. It panics if either is
// nil: the widget cannot exist outside its providers.
func New(store *model.Store, client Client, opts ...Option) Model {
	if store == nil {
		panic("chat: New called with nil store")
	}
	if client == nil {
		panic("chat: New called with nil client")
	}

	input := textinput.New()
	input.Placeholder = InputPlaceholder
	input.Prompt = "> "
	input.CharLimit = 4000

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 4000

	m := Model{
		store:          store,
		client:         client,
		keys:           DefaultKeyMap(),
		input:          input,
		editInput:      edit,
		spinner:        components.NewSpinner("Loading..."),
		typingInterval: time.Duration(config.DefaultTypingIntervalMs) * time.Millisecond,
		viewport:       viewport.New(40, 10),
		markdown:       &markdownRenderer{},
		showTimestamps: true,
		now:            time.Now,
		timeout:        DefaultTimeout,
		width:          80,
		height:         24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.theme == nil {
		m.theme = styles.NewTheme()
	}
	if m.markdown != nil {
		m.markdown.dark = m.theme.IsDark
	}
	m.resize()
	return m
}

// Apply reconfigures a live widget, e.g. after the config file changed.
func (m *Model) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(m)
	}
	if m.markdown != nil {
		m.markdown.dark = m.theme.IsDark
	}
	m.resize()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// IsOpen reports whether the chat window is shown.
func (m Model) IsOpen() bool { return m.open }

// IsExpanded reports whether the open window is enlarged.
func (m Model) IsExpanded() bool { return m.expanded }

// Sending reports whether a send is in flight.
func (m Model) Sending() bool { return m.sending }

// Editing reports whether an edit is in flight.
func (m Model) Editing() bool { return m.editing }

// EditingID is the message in edit mode, or "".
func (m Model) EditingID() string { return m.editingID }

// MenuFor is the message whose options menu is open, or "".
func (m Model) MenuFor() string { return m.menuFor }

// TypingID is the bot message being revealed, or "".
func (m Model) TypingID() string { return m.typingID }

// Session identifies the current signed-in session; Reset advances it.
func (m Model) Session() uint64 { return m.session }

// SelectedID is the highlighted message, or "".
func (m Model) SelectedID() string { return m.selectedID }

// Input returns the composition text.
func (m Model) Input() string { return m.input.Value() }

// SetInput replaces the composition text.
func (m *Model) SetInput(s string) { m.input.SetValue(s) }

// EditContent returns the text in the edit field.
func (m Model) EditContent() string { return m.editInput.Value() }

// SetEditContent replaces the text in the edit field.
func (m *Model) SetEditContent(s string) { m.editInput.SetValue(s) }

// KeyMap returns the widget's bindings.
func (m Model) KeyMap() KeyMap { return m.keys }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init returns nothing: the widget starts closed.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncViewport()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MessagesFetchedMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		return m.handleFetched(msg)

	case MessageSentMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		return m.handleSent(msg)

	case MessageEditedMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		return m.handleEdited(msg)

	case MessageDeletedMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		return m.handleDeleted(msg)

	case TypingTickMsg:
		if m.stale(msg.Session, msg) {
			return m, nil
		}
		return m.handleTypingTick(msg)

	default:
		var cmds [3]tea.Cmd
		m.spinner, cmds[0] = m.spinner.Update(msg)
		m.input, cmds[1] = m.input.Update(msg)
		m.editInput, cmds[2] = m.editInput.Update(msg)
		return m, tea.Batch(cmds[:]...)
	}
}

func (m Model) stale(session uint64, msg tea.Msg) bool {
	if session == m.session {
		return false
	}
	logging.Debug("dropping result from previous session", "type", fmt.Sprintf("%T", msg))
	return true
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Toggle) {
		cmd := m.Toggle()
		return m, cmd
	}
	if !m.open {
		return m, nil
	}
	if key.Matches(msg, m.keys.Expand) {
		m.ToggleExpand()
		return m, nil
	}

	// Edit mode owns the keyboard.
	if m.editingID != "" {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.CancelEdit()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			cmd := m.SubmitEdit()
			return m, cmd
		}
		if m.editing {
			return m, nil
		}
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}

	// An open menu takes single-letter keys.
	if m.menuFor != "" {
		switch {
		case key.Matches(msg, m.keys.Edit):
			m.BeginEdit(m.menuFor)
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Delete):
			cmd := m.Delete(m.menuFor)
			return m, cmd
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Menu):
			m.menuFor = ""
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.Menu):
		if m.selectedID != "" {
			m.ToggleMenu(m.selectedID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.selectedID = ""
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		cmd := m.Send()
		return m, cmd
	}

	if m.sending {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// moveSelection walks the message list. Moving past the end clears the
// selection and returns focus to the input.
func (m *Model) moveSelection(delta int) {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		m.selectedID = ""
		return
	}
	idx := -1
	for i, msg := range msgs {
		if msg.ID == m.selectedID {
			idx = i
			break
		}
	}
	switch {
	case idx == -1 && delta < 0:
		idx = len(msgs) - 1
	case idx == -1:
		return
	default:
		idx += delta
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(msgs) {
		m.selectedID = ""
		return
	}
	m.selectedID = msgs[idx].ID
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Toggle opens or closes the window. Opening fetches the conversation;
// closing resets the expanded state.
func (m *Model) Toggle() tea.Cmd {
	if m.open {
		m.open = false
		m.expanded = false
		m.input.Blur()
		m.resize()
		return nil
	}
	m.open = true
	m.input.Focus()
	m.resize()
	logging.Debug("chat opened, fetching messages")
	return tea.Batch(textinput.Blink, FetchMessagesCmd(m.client, m.session, m.timeout))
}

// Reset closes the window and forgets everything tied to the signed-in
// user: selection, menu, edit mode, composition and any running reveal.
// Requests and reveal ticks already in flight are ignored when they land.
// The store is left alone; its owner clears it.
func (m *Model) Reset() {
	m.session++
	m.open = false
	m.expanded = false
	m.sending = false
	m.editing = false
	m.spinner.Stop()
	m.selectedID = ""
	m.menuFor = ""
	m.editingID = ""
	m.typingID = ""
	m.input.Reset()
	m.input.Blur()
	m.editInput.Reset()
	m.editInput.Blur()
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	m.resize()
}

// ToggleExpand switches between the compact and expanded window.
func (m *Model) ToggleExpand() {
	if !m.open {
		return
	}
	m.expanded = !m.expanded
	m.resize()
}

// Send posts the composed text. Whitespace-only input and submits while a
// send is in flight do nothing.
func (m *Model) Send() tea.Cmd {
	if m.sending {
		return nil
	}
	content := m.input.Value()
	if model.IsEmpty(content) {
		return nil
	}
	m.sending = true
	m.input.Blur()
	return tea.Batch(m.spinner.Start(), SendMessageCmd(m.client, m.session, content, m.timeout))
}

// ToggleMenu opens the options menu for id, or closes it if it is already
// open for id. Bot messages have no menu.
func (m *Model) ToggleMenu(id string) {
	if m.menuFor == id {
		m.menuFor = ""
		return
	}
	msg, ok := m.store.Get(id)
	if !ok || msg.IsBot {
		return
	}
	m.menuFor = id
}

// BeginEdit puts id into edit mode with its current content. Any other
// message leaves edit mode.
func (m *Model) BeginEdit(id string) {
	msg, ok := m.store.Get(id)
	if !ok || msg.IsBot {
		return
	}
	m.editingID = id
	m.editInput.SetValue(msg.Content)
	m.editInput.CursorEnd()
	m.editInput.Focus()
	m.input.Blur()
	m.menuFor = ""
}

// CancelEdit leaves edit mode without saving.
func (m *Model) CancelEdit() {
	if m.editing {
		return
	}
	m.editingID = ""
	m.editInput.Reset()
	m.editInput.Blur()
	if !m.sending {
		m.input.Focus()
	}
}

// SubmitEdit saves the edit field. Empty content is refused locally and
// sends nothing.
func (m *Model) SubmitEdit() tea.Cmd {
	if m.editingID == "" || m.editing {
		return nil
	}
	content := m.editInput.Value()
	if model.IsEmpty(content) {
		return m.notify(ErrEmptyEdit, nil)
	}
	m.editing = true
	return EditMessageCmd(m.client, m.session, m.editingID, content, m.timeout)
}

// Delete removes id on the server, then locally.
func (m *Model) Delete(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	return DeleteMessageCmd(m.client, m.session, id, m.timeout)
}

// notify logs err and returns a command showing text as an error toast.
func (m *Model) notify(text string, err error) tea.Cmd {
	if err != nil {
		logging.Error(text, "error", err)
	} else {
		logging.Warn(text)
	}
	return components.ShowError(text)
}

// =============================================================================
// RESULT HANDLERS
// =============================================================================

func (m Model) handleFetched(msg MessagesFetchedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.notify(ErrFetch, msg.Err)
	}
	msgs := append([]model.Message(nil), msg.Messages...)
	model.SortByTimestamp(msgs)
	m.store.Replace(msgs)
	logging.Debug("messages loaded", "count", len(msgs))
	return m, nil
}

func (m Model) handleSent(msg MessageSentMsg) (Model, tea.Cmd) {
	m.sending = false
	m.spinner.Stop()
	if m.open && m.editingID == "" {
		m.input.Focus()
	}

	if msg.Err != nil {
		return m, m.notify(api.ErrorDetail(msg.Err, ErrSend), msg.Err)
	}

	m.store.Append(msg.Result.UserMessage)
	// Only clear if the user hasn't started a new message meanwhile.
	if m.input.Value() == msg.Content {
		m.input.Reset()
	}
	return m, m.startTyping(msg.Result.BotResponse)
}

func (m Model) handleEdited(msg MessageEditedMsg) (Model, tea.Cmd) {
	m.editing = false
	m.editingID = ""
	m.editInput.Reset()
	m.editInput.Blur()
	m.menuFor = ""
	if m.open && !m.sending {
		m.input.Focus()
	}

	if msg.Err != nil {
		return m, m.notify(api.ErrorDetail(msg.Err, ErrEdit), msg.Err)
	}
	m.store.UpdateContent(msg.ID, msg.Content)
	return m, nil
}

func (m Model) handleDeleted(msg MessageDeletedMsg) (Model, tea.Cmd) {
	m.menuFor = ""
	if msg.Err != nil {
		return m, m.notify(api.ErrorDetail(msg.Err, ErrDelete), msg.Err)
	}
	m.store.Remove(msg.ID)
	if m.selectedID == msg.ID {
		m.selectedID = ""
	}
	return m, nil
}

// =============================================================================
// TYPING REVEAL
// =============================================================================

// startTyping begins revealing bot. Nothing is shown until the first tick.
func (m *Model) startTyping(bot model.Message) tea.Cmd {
	bot.IsBot = true
	m.typingID = bot.ID
	return typingTick(m.typingInterval, m.session, bot, 0)
}

func (m Model) handleTypingTick(msg TypingTickMsg) (Model, tea.Cmd) {
	total := util.RuneLen(msg.Message.Content)
	if msg.Shown >= total {
		if m.typingID == msg.Message.ID {
			m.typingID = ""
		}
		return m, nil
	}

	shown := msg.Shown + 1
	partial := msg.Message
	partial.Content = util.RunePrefix(msg.Message.Content, shown)
	m.store.PutLast(partial)
	return m, typingTick(m.typingInterval, m.session, msg.Message, shown)
}

// =============================================================================
// LAYOUT
// =============================================================================

// Heights of the fixed rows inside the window.
const (
	borderRows  = 2
	headerRows  = 1
	welcomeRows = 3
	inputRows   = 2
	footerRows  = 1
)

// WindowSize returns the outer size of the chat window for the current
// terminal size and expanded state.
func (m Model) WindowSize() (int, int) {
	if m.expanded {
		return max(m.width-2, 20), max(m.height-2, 12)
	}
	return min(max(m.width-2, 20), 52), min(max(m.height-2, 12), 24)
}

func (m *Model) resize() {
	w, h := m.WindowSize()
	inner := w - borderRows
	m.viewport.Width = inner
	m.viewport.Height = max(h-borderRows-headerRows-welcomeRows-inputRows-footerRows, 1)
	m.input.Width = max(inner-6, 10)
	m.editInput.Width = max(inner-8, 10)
	m.lastVersion = 0
}

// syncViewport re-renders the message list and follows new content.
func (m *Model) syncViewport() {
	if !m.open {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.viewport.Width))
	if v := m.store.Version(); v != m.lastVersion {
		m.lastVersion = v
		m.viewport.GotoBottom()
	}
}
