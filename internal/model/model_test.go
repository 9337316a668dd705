// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TIMESTAMP TESTS
// =============================================================================

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"rfc3339 zulu", "2024-05-01T10:00:00Z", true},
		{"rfc3339 offset", "2024-05-01T10:00:00+02:00", true},
		{"naive with micros", "2024-05-01T10:00:00.123456", true},
		{"naive space separated", "2024-05-01 10:00:00", true},
		{"date only", "2024-05-01", true},
		{"empty", "", false},
		{"garbage", "yesterday", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ParseTimestamp(tc.in)
			if ok != tc.ok {
				t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
		})
	}
}

func TestMessage_UnmarshalNumericID(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"id_message":42,"content":"hi","is_bot":true,"timestamp":"2024-05-01T10:00:00"}`), &m))
	assert.Equal(t, "42", m.ID)
	assert.Equal(t, "hi", m.Content)
	assert.True(t, m.IsBot)

	require.NoError(t, json.Unmarshal([]byte(`{"id_message":"abc"}`), &m))
	assert.Equal(t, "abc", m.ID)

	require.Error(t, json.Unmarshal([]byte(`{"id_message":{}}`), &m))
}

func TestSortByTimestamp(t *testing.T) {
	msgs := []Message{
		{ID: "c", Timestamp: "2024-05-01T10:00:03"},
		{ID: "a", Timestamp: "2024-05-01T10:00:01"},
		{ID: "b", Timestamp: "2024-05-01T10:00:02"},
	}
	SortByTimestamp(msgs)

	got := []string{msgs[0].ID, msgs[1].ID, msgs[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSortByTimestamp_StableForTies(t *testing.T) {
	msgs := []Message{
		{ID: "first", Timestamp: "2024-05-01T10:00:00"},
		{ID: "second", Timestamp: "2024-05-01T10:00:00"},
		{ID: "bad1", Timestamp: "nope"},
		{ID: "bad2", Timestamp: ""},
	}
	SortByTimestamp(msgs)

	// Unparseable timestamps sort as the zero time, ahead of real ones.
	assert.Equal(t, "bad1", msgs[0].ID)
	assert.Equal(t, "bad2", msgs[1].ID)
	assert.Equal(t, "first", msgs[2].ID)
	assert.Equal(t, "second", msgs[3].ID)
}

func TestMessage_Sender(t *testing.T) {
	if got := (Message{IsBot: true}).Sender(); got != "Ava" {
		t.Errorf("bot Sender() = %q", got)
	}
	if got := (Message{}).Sender(); got != "You" {
		t.Errorf("user Sender() = %q", got)
	}
}

func TestIsEmpty(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n "} {
		if !IsEmpty(s) {
			t.Errorf("IsEmpty(%q) = false", s)
		}
	}
	if IsEmpty(" hi ") {
		t.Error("IsEmpty(\" hi \") = true")
	}
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_AppendDoesNotResort(t *testing.T) {
	s := NewStore()
	s.Replace([]Message{{ID: "1", Timestamp: "2024-05-01T10:00:05"}})
	s.Append(Message{ID: "2", Timestamp: "2024-05-01T10:00:01"})

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, "2", msgs[1].ID)
}

func TestStore_PutLastMovesEntryToEnd(t *testing.T) {
	s := NewStore()
	s.Replace([]Message{{ID: "bot", Content: "H", IsBot: true}, {ID: "x"}})

	s.PutLast(Message{ID: "bot", Content: "He", IsBot: true})

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "x", msgs[0].ID)
	assert.Equal(t, "He", msgs[1].Content)
}

func TestStore_UpdateContentAndRemove(t *testing.T) {
	s := NewStore()
	s.Replace([]Message{{ID: "1", Content: "old"}, {ID: "2", Content: "keep"}})

	require.True(t, s.UpdateContent("1", "new"))
	require.False(t, s.UpdateContent("missing", "x"))

	m, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "new", m.Content)

	require.True(t, s.Remove("1"))
	require.False(t, s.Remove("1"))
	assert.Equal(t, 1, s.Len())
	_, ok = s.Get("2")
	assert.True(t, ok)
}

func TestStore_VersionBumpsOnMutation(t *testing.T) {
	s := NewStore()
	v0 := s.Version()
	s.Append(Message{ID: "1"})
	v1 := s.Version()
	if v1 <= v0 {
		t.Fatalf("version did not increase after Append: %d -> %d", v0, v1)
	}
	s.Remove("missing")
	if s.Version() != v1 {
		t.Error("version changed on no-op Remove")
	}
}

func TestStore_MessagesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(Message{ID: "1", Content: "a"})
	msgs := s.Messages()
	msgs[0].Content = "mutated"

	m, _ := s.Get("1")
	assert.Equal(t, "a", m.Content)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.PutLast(Message{ID: "bot", Content: "x"})
			_ = s.Messages()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
