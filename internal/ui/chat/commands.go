// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/model"
)

// Client is the part of the API the widget uses. *api.Client satisfies it.
type Client interface {
	ListMessages(ctx context.Context) ([]model.Message, error)
	SendMessage(ctx context.Context, content string) (*api.SendResult, error)
	EditMessage(ctx context.Context, id, content string) (*api.EditResult, error)
	DeleteMessage(ctx context.Context, id string) (*api.DeleteResult, error)
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// FetchMessagesCmd loads the conversation. Every result carries session so
// the widget can drop answers that arrive after a logout.
func FetchMessagesCmd(client Client, session uint64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msgs, err := client.ListMessages(ctx)
		return MessagesFetchedMsg{Session: session, Messages: msgs, Err: err}
	}
}

// SendMessageCmd posts content and returns both the stored user message and
// the bot reply.
func SendMessageCmd(client Client, session uint64, content string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := client.SendMessage(ctx, content)
		return MessageSentMsg{Session: session, Content: content, Result: res, Err: err}
	}
}

// EditMessageCmd replaces a message's content.
func EditMessageCmd(client Client, session uint64, id, content string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, err := client.EditMessage(ctx, id, content)
		return MessageEditedMsg{Session: session, ID: id, Content: content, Err: err}
	}
}

// DeleteMessageCmd deletes a message.
func DeleteMessageCmd(client Client, session uint64, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, err := client.DeleteMessage(ctx, id)
		return MessageDeletedMsg{Session: session, ID: id, Err: err}
	}
}

// typingTick schedules the next reveal step.
func typingTick(interval time.Duration, session uint64, msg model.Message, shown int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TypingTickMsg{Session: session, Message: msg, Shown: shown}
	})
}
