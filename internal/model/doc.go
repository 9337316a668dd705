// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat message type and the shared message store.
//
// # Key Types
//
//   - Message: one chat entry as returned by the Ava API (id, content, is_bot, timestamp)
//   - Store: ordered, mutable list of messages shared by the chat widget and its views
//
// # Usage
//
//	store := model.NewStore()
//	model.SortByTimestamp(msgs)
//	store.Replace(msgs)
//	store.Append(userMsg)
//	store.PutLast(model.Message{ID: bot.ID, Content: "Hel", IsBot: true})
//
// The store is sorted only when it is filled from a fetch. Appends, edits and
// typing updates never re-sort it.
package model
