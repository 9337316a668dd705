// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/fakeapi"
	"github.com/jeranaias/ava-tui/internal/model"
	"github.com/jeranaias/ava-tui/internal/ui/components"
	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

const (
	testEmail    = "user@example.com"
	testPassword = "password123"
)

// harness drives a widget against a logged-in fake server, executing the
// commands it returns the way the Bubble Tea runtime would.
type harness struct {
	t      *testing.T
	m      Model
	store  *model.Store
	srv    *fakeapi.Server
	toasts []components.ToastMsg
}

func newHarness(t *testing.T, seed ...model.Message) *harness {
	t.Helper()
	srv := fakeapi.New(fakeapi.WithBcryptCost(bcrypt.MinCost))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	require.NoError(t, srv.AddUser(testEmail, testPassword))
	if len(seed) > 0 {
		require.NoError(t, srv.SeedMessages(testEmail, seed))
	}

	client := api.New(ts.URL, nil)
	require.NoError(t, client.Login(context.Background(), testEmail, testPassword))
	srv.ResetCounts()

	store := model.NewStore()
	m := New(store, client,
		WithTheme(styles.NewThemeForMode(styles.ModeDark)),
		WithTypingInterval(time.Millisecond),
		WithTimeout(5*time.Second),
		WithMarkdown(false),
	)
	// Blinking cursors schedule timers that would slow every keypress.
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.editInput.Cursor.SetMode(cursor.CursorStatic)
	return &harness{t: t, m: m, store: store, srv: srv}
}

// run executes cmd and feeds widget messages back into Update until the
// chain settles. Cursor blinks and spinner ticks are dropped.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case components.ToastMsg:
		h.toasts = append(h.toasts, msg)
	case MessagesFetchedMsg, MessageSentMsg, MessageEditedMsg, MessageDeletedMsg, TypingTickMsg:
		var next tea.Cmd
		h.m, next = h.m.Update(msg)
		h.run(next)
	}
}

// press sends a key through Update and runs the result.
func (h *harness) press(k tea.KeyMsg) {
	var cmd tea.Cmd
	h.m, cmd = h.m.Update(k)
	h.run(cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (h *harness) open() {
	h.press(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(h.t, h.m.IsOpen())
}

func (h *harness) lastToast() string {
	if len(h.toasts) == 0 {
		return ""
	}
	return h.toasts[len(h.toasts)-1].Message
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNew_PanicsWithoutDependencies(t *testing.T) {
	client := api.New("http://localhost:1", nil)
	assert.Panics(t, func() { New(nil, client) })
	assert.Panics(t, func() { New(model.NewStore(), nil) })
}

// =============================================================================
// OPEN / CLOSE / EXPAND
// =============================================================================

func TestToggle_OpenFetchesOnceSorted(t *testing.T) {
	h := newHarness(t,
		model.Message{ID: "b", Content: "second", IsBot: true, Timestamp: "2024-05-01T10:00:02"},
		model.Message{ID: "a", Content: "first", Timestamp: "2024-05-01T10:00:01"},
	)

	h.open()
	assert.Equal(t, 1, h.srv.Count("GET /messages/"))

	msgs := h.store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, "b", msgs[1].ID)
}

func TestToggle_CloseResetsExpandedAndReopenRefetches(t *testing.T) {
	h := newHarness(t)
	h.open()
	h.press(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.True(t, h.m.IsExpanded())

	h.press(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.False(t, h.m.IsOpen())
	assert.False(t, h.m.IsExpanded())

	h.open()
	assert.False(t, h.m.IsExpanded())
	assert.Equal(t, 2, h.srv.Count("GET /messages/"))
}

func TestExpand_IgnoredWhileClosed(t *testing.T) {
	h := newHarness(t)
	h.press(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.False(t, h.m.IsExpanded())
	assert.Zero(t, h.srv.Total())
}

func TestFetchFailure_Notifies(t *testing.T) {
	h := newHarness(t)
	h.store.Replace([]model.Message{{ID: "keep", Content: "x"}})
	h.srv.FailNext("GET /messages/", http.StatusInternalServerError, "db down")

	h.open()
	assert.Equal(t, ErrFetch, h.lastToast())
	assert.Equal(t, 1, h.store.Len())
}

// =============================================================================
// SENDING
// =============================================================================

func TestSend_WhitespaceIsNoop(t *testing.T) {
	h := newHarness(t)
	h.open()
	h.srv.ResetCounts()

	h.m.SetInput("   \t ")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, h.m.Sending())
	assert.Zero(t, h.srv.Total())
	assert.Empty(t, h.toasts)
}

func TestSend_AppendsAndRevealsReply(t *testing.T) {
	h := newHarness(t)
	h.open()

	h.m.SetInput("hello")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, h.m.Sending())
	assert.Empty(t, h.m.Input())
	assert.Empty(t, h.m.TypingID())
	assert.Equal(t, 1, h.srv.Count("POST /messages/"))

	msgs := h.store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.False(t, msgs[0].IsBot)
	assert.Equal(t, "You said: hello", msgs[1].Content)
	assert.True(t, msgs[1].IsBot)
}

func TestSend_IgnoredWhileInFlight(t *testing.T) {
	h := newHarness(t)
	h.open()

	h.m.SetInput("first")
	cmd := h.m.Send()
	require.NotNil(t, cmd)
	assert.True(t, h.m.Sending())

	assert.Nil(t, h.m.Send())
	h.press(tea.KeyMsg{Type: tea.KeyEnter})

	h.run(cmd)
	assert.Equal(t, 1, h.srv.Count("POST /messages/"))
	assert.False(t, h.m.Sending())
}

func TestSend_FailureKeepsInput(t *testing.T) {
	h := newHarness(t)
	h.open()
	h.srv.FailNext("POST /messages/", http.StatusBadRequest, "Message content cannot be empty")

	h.m.SetInput("hello")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, h.m.Sending())
	assert.Equal(t, "hello", h.m.Input())
	assert.Equal(t, "Message content cannot be empty", h.lastToast())
	assert.Zero(t, h.store.Len())
}

func TestSend_FailureWithoutDetailUsesFallback(t *testing.T) {
	h := newHarness(t)
	h.open()
	h.srv.FailNext("POST /messages/", http.StatusInternalServerError, "")

	h.m.SetInput("hello")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ErrSend, h.lastToast())
}

// =============================================================================
// TYPING REVEAL
// =============================================================================

func TestTypingTick_RevealsByRune(t *testing.T) {
	h := newHarness(t)
	bot := model.Message{ID: "bot", Content: "hé👋", IsBot: true}
	h.m.typingID = bot.ID

	var cmd tea.Cmd
	h.m, cmd = h.m.Update(TypingTickMsg{Message: bot, Shown: 0})
	require.NotNil(t, cmd)
	got, _ := h.store.Get("bot")
	assert.Equal(t, "h", got.Content)

	h.m, _ = h.m.Update(TypingTickMsg{Message: bot, Shown: 2})
	got, _ = h.store.Get("bot")
	assert.Equal(t, "hé👋", got.Content)
	assert.Equal(t, "bot", h.m.TypingID())

	h.m, cmd = h.m.Update(TypingTickMsg{Message: bot, Shown: 3})
	assert.Nil(t, cmd)
	assert.Empty(t, h.m.TypingID())
	assert.Equal(t, 1, h.store.Len())
}

// sendHeld submits text and returns the first reveal tick without running
// it, leaving the reply unrevealed.
func (h *harness) sendHeld(text string) tea.Cmd {
	h.t.Helper()
	h.m.SetInput(text)
	var sent *MessageSentMsg
	var find func(tea.Cmd)
	find = func(c tea.Cmd) {
		if c == nil || sent != nil {
			return
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			for _, inner := range msg {
				find(inner)
			}
		case MessageSentMsg:
			sent = &msg
		}
	}
	find(h.m.Send())
	require.NotNil(h.t, sent)

	var tick tea.Cmd
	h.m, tick = h.m.Update(*sent)
	require.NotNil(h.t, tick)
	require.NotEmpty(h.t, h.m.TypingID())
	return tick
}

func TestTypingTick_FinishesAfterClose(t *testing.T) {
	h := newHarness(t)
	h.open()
	tick := h.sendHeld("hello")

	h.press(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.False(t, h.m.IsOpen())

	h.run(tick)
	assert.Empty(t, h.m.TypingID())
	msgs := h.store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "You said: hello", msgs[1].Content)

	h.open()
	msgs = h.store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "You said: hello", msgs[1].Content)
}

func TestReset_DropsRevealInFlight(t *testing.T) {
	h := newHarness(t)
	h.open()
	tick := h.sendHeld("hello")

	h.m.Reset()
	h.store.Replace(nil)
	h.run(tick)

	assert.False(t, h.m.IsOpen())
	assert.Empty(t, h.m.TypingID())
	assert.Zero(t, h.store.Len())
}

func TestReset_DropsResultsFromEarlierSession(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()
	h.m.Toggle()
	fetch := h.m.Toggle()
	require.NotNil(t, fetch)
	h.m.SetInput("draft")
	h.m.selectedID = "u1"
	h.m.ToggleMenu("u1")
	require.Equal(t, "u1", h.m.MenuFor())

	h.m.Reset()
	h.store.Replace(nil)
	h.run(fetch)

	assert.Zero(t, h.store.Len())
	assert.False(t, h.m.IsOpen())
	assert.Empty(t, h.m.MenuFor())
	assert.Empty(t, h.m.SelectedID())
	assert.Empty(t, h.m.Input())

	h.open()
	assert.Equal(t, 3, h.store.Len())
	assert.Equal(t, 3, h.srv.Count("GET /messages/"))
}

func TestTypingTick_StaysLast(t *testing.T) {
	h := newHarness(t)
	h.store.Replace([]model.Message{{ID: "bot", Content: "h", IsBot: true}, {ID: "u", Content: "later"}})

	h.m, _ = h.m.Update(TypingTickMsg{Message: model.Message{ID: "bot", Content: "hi", IsBot: true}, Shown: 1})
	msgs := h.store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "bot", msgs[1].ID)
	assert.Equal(t, "hi", msgs[1].Content)
}

// =============================================================================
// OPTIONS MENU AND EDITING
// =============================================================================

func seeded() []model.Message {
	return []model.Message{
		{ID: "u1", Content: "question", Timestamp: "2024-05-01T10:00:01"},
		{ID: "b1", Content: "answer", IsBot: true, Timestamp: "2024-05-01T10:00:02"},
		{ID: "u2", Content: "follow up", Timestamp: "2024-05-01T10:00:03"},
	}
}

func TestToggleMenu(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()

	h.m.ToggleMenu("b1")
	assert.Empty(t, h.m.MenuFor(), "bot messages have no menu")

	h.m.ToggleMenu("u1")
	assert.Equal(t, "u1", h.m.MenuFor())
	h.m.ToggleMenu("u2")
	assert.Equal(t, "u2", h.m.MenuFor())
	h.m.ToggleMenu("u2")
	assert.Empty(t, h.m.MenuFor())
}

func TestBeginEdit_SingleMessageAndClosesMenu(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()

	h.m.ToggleMenu("u1")
	h.m.BeginEdit("u1")
	assert.Equal(t, "u1", h.m.EditingID())
	assert.Equal(t, "question", h.m.EditContent())
	assert.Empty(t, h.m.MenuFor())

	h.m.BeginEdit("u2")
	assert.Equal(t, "u2", h.m.EditingID())
}

func TestSubmitEdit_EmptyMakesNoCall(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()
	h.srv.ResetCounts()

	h.m.BeginEdit("u1")
	h.m.SetEditContent("   ")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ErrEmptyEdit, h.lastToast())
	assert.Zero(t, h.srv.Total())
	assert.Equal(t, "u1", h.m.EditingID())
}

func TestSubmitEdit_Success(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()

	h.m.BeginEdit("u1")
	h.m.SetEditContent("better question")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := h.store.Get("u1")
	assert.Equal(t, "better question", got.Content)
	assert.Empty(t, h.m.EditingID())
	assert.False(t, h.m.Editing())
	assert.Equal(t, 1, h.srv.Count("PUT /messages/{id}"))
}

func TestSubmitEdit_FailureResetsModeKeepsContent(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()
	h.srv.FailNext("PUT /messages/{id}", http.StatusNotFound, "Message not found")

	h.m.BeginEdit("u1")
	h.m.SetEditContent("changed")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := h.store.Get("u1")
	assert.Equal(t, "question", got.Content)
	assert.Empty(t, h.m.EditingID())
	assert.Equal(t, "Message not found", h.lastToast())
}

func TestCancelEdit(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()
	h.m.BeginEdit("u1")
	h.press(tea.KeyMsg{Type: tea.KeyEscape})
	assert.Empty(t, h.m.EditingID())
}

// =============================================================================
// DELETING
// =============================================================================

func TestDelete_RemovesOnlyAfterSuccess(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()
	h.m.ToggleMenu("u1")

	cmd := h.m.Delete("u1")
	_, still := h.store.Get("u1")
	assert.True(t, still, "nothing is removed before the server answers")

	h.run(cmd)
	_, still = h.store.Get("u1")
	assert.False(t, still)
	assert.Empty(t, h.m.MenuFor())
}

func TestDelete_FailureKeepsMessage(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()
	h.srv.FailNext("DELETE /messages/{id}", http.StatusInternalServerError, "")
	h.m.ToggleMenu("u1")

	h.run(h.m.Delete("u1"))
	_, still := h.store.Get("u1")
	assert.True(t, still)
	assert.Empty(t, h.m.MenuFor())
	assert.Equal(t, ErrDelete, h.lastToast())
}

// =============================================================================
// KEYBOARD FLOW
// =============================================================================

func TestKeyboard_SelectMenuDelete(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()

	h.press(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "u2", h.m.SelectedID())

	h.press(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "u2", h.m.MenuFor())

	h.press(runes("d"))
	_, still := h.store.Get("u2")
	assert.False(t, still)
	assert.Empty(t, h.m.SelectedID())
}

func TestKeyboard_SelectMenuEdit(t *testing.T) {
	h := newHarness(t, seeded()...)
	h.open()

	h.press(tea.KeyMsg{Type: tea.KeyUp})
	h.press(tea.KeyMsg{Type: tea.KeyUp})
	h.press(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "u1", h.m.SelectedID())

	h.press(tea.KeyMsg{Type: tea.KeyTab})
	h.press(runes("e"))
	assert.Equal(t, "u1", h.m.EditingID())

	h.press(runes("!"))
	assert.Equal(t, "question!", h.m.EditContent())
}

func TestKeyboard_TypingGoesToInput(t *testing.T) {
	h := newHarness(t)
	h.open()
	h.press(runes("hi"))
	assert.Equal(t, "hi", h.m.Input())
}

// =============================================================================
// VIEW
// =============================================================================

func TestView(t *testing.T) {
	h := newHarness(t, seeded()...)
	assert.Contains(t, h.m.View(), ToggleLabel)

	h.open()
	view := h.m.View()
	assert.Contains(t, view, "Ask me anything")
	assert.Contains(t, view, "question")

	h.m.ToggleMenu("u1")
	h.m, _ = h.m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, h.m.View(), "[d] Delete")
}

func TestWindowSize_ExpandedFillsTerminal(t *testing.T) {
	h := newHarness(t)
	h.m, _ = h.m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.open()

	w, hgt := h.m.WindowSize()
	assert.LessOrEqual(t, w, 52)
	assert.LessOrEqual(t, hgt, 24)

	h.m.ToggleExpand()
	w, hgt = h.m.WindowSize()
	assert.Equal(t, 118, w)
	assert.Equal(t, 38, hgt)
}

func TestRenderBubble_MarkdownForBotOnly(t *testing.T) {
	h := newHarness(t)
	WithMarkdown(true)(&h.m)
	h.m.markdown.dark = true

	out := h.m.renderBubble(model.Message{ID: "b", Content: "**bold**", IsBot: true}, 60)
	assert.NotContains(t, out, "**")

	out = h.m.renderBubble(model.Message{ID: "u", Content: "**raw**"}, 60)
	assert.True(t, strings.Contains(out, "**raw**"))
}
