// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// =============================================================================
// STORE TYPE
// =============================================================================

// Store holds the live message list. It is safe for concurrent use.
//
// Version increases on every mutation so views can tell when the list
// changed (for example to scroll to the bottom).
type Store struct {
	mu       sync.RWMutex
	messages []Message
	version  uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{messages: make([]Message, 0)}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Replace swaps the whole list for msgs.
func (s *Store) Replace(msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(make([]Message, 0, len(msgs)), msgs...)
	s.version++
}

// Append adds msg at the end of the list.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	s.version++
}

// PutLast removes any entry with msg.ID and appends msg at the end.
// The typing reveal uses this to replace its partial entry on every step.
func (s *Store) PutLast(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = s.without(msg.ID)
	s.messages = append(s.messages, msg)
	s.version++
}

// UpdateContent overwrites the content of the message with id in place.
// It reports whether the message was found.
func (s *Store) UpdateContent(id, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Content = content
			s.version++
			return true
		}
	}
	return false
}

// Remove deletes the message with id. It reports whether it was found.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.messages)
	s.messages = s.without(id)
	if len(s.messages) == before {
		return false
	}
	s.version++
	return true
}

// without returns the list minus every entry with id. Caller holds the lock.
func (s *Store) without(id string) []Message {
	out := s.messages[:0:0]
	for _, m := range s.messages {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the list.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Get returns the message with id.
func (s *Store) Get(id string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Version returns the mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
