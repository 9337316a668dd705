// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/model"
)

// =============================================================================
// API RESULTS
// =============================================================================

// MessagesFetchedMsg carries the result of FetchMessagesCmd.
type MessagesFetchedMsg struct {
	Session  uint64
	Messages []model.Message
	Err      error
}

// MessageSentMsg carries the result of SendMessageCmd.
type MessageSentMsg struct {
	Session uint64
	Content string
	Result  *api.SendResult
	Err     error
}

// MessageEditedMsg carries the result of EditMessageCmd. Content is what was
// submitted, which is what gets shown on success.
type MessageEditedMsg struct {
	Session uint64
	ID      string
	Content string
	Err     error
}

// MessageDeletedMsg carries the result of DeleteMessageCmd.
type MessageDeletedMsg struct {
	Session uint64
	ID      string
	Err     error
}

// =============================================================================
// TYPING REVEAL
// =============================================================================

// TypingTickMsg advances a reveal. Message is the complete bot reply and
// Shown the number of characters already on screen.
type TypingTickMsg struct {
	Session uint64
	Message model.Message
	Shown   int
}
