// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Ava chat widget: a Bubble Tea component that
// sits in the corner of the Home page.
//
// # States
//
//	closed --ctrl+o--> open --ctrl+e--> open+expanded
//	   ^                 |                    |
//	   +-----ctrl+o------+--------ctrl+o------+  (closing resets expanded)
//
// Every closed->open transition fetches the conversation once and replaces
// the shared store with it, sorted by timestamp.
//
// # Sending and the typing reveal
//
// A send disables the input until the server answers. The user message is
// appended as returned; the bot reply is then revealed one character per
// tick (30ms by default) through Store.PutLast. Each TypingTickMsg carries
// the whole reply and the number of characters shown, so overlapping
// reveals never share state.
//
// # Editing and deleting
//
// Only the user's own messages have an options menu (tab on the selected
// message). From the menu, e edits in place and d deletes. A delete removes
// the message only after the server confirms it.
//
// All network work happens in tea.Cmds; results come back as messages
// defined in messages.go. Failures surface as error toasts via
// components.ToastMsg.
package chat
