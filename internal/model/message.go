// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat entry. Field names follow the API wire format.
type Message struct {
	ID        string `json:"id_message"`
	Content   string `json:"content"`
	IsBot     bool   `json:"is_bot"`
	Timestamp string `json:"timestamp"`
}

// WireID decodes an id the server may send as a JSON string or number.
type WireID string

// UnmarshalJSON implements json.Unmarshaler.
func (w *WireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*w = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = WireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*w = WireID(n.String())
	return nil
}

// UnmarshalJSON accepts numeric message ids.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := struct {
		ID WireID `json:"id_message"`
		*alias
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.ID = string(aux.ID)
	return nil
}

// timestampLayouts are tried in order. The API emits ISO-8601 without a zone
// for naive datetimes, so zone-less layouts are parsed as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an API timestamp. It returns false when no known
// layout matches.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Time returns the parsed timestamp, or the zero time if it cannot be parsed.
func (m Message) Time() time.Time {
	t, _ := ParseTimestamp(m.Timestamp)
	return t
}

// Sender returns the display label for the message author.
func (m Message) Sender() string {
	if m.IsBot {
		return "Ava"
	}
	return "You"
}

// IsEmpty reports whether the content is blank after trimming whitespace.
func IsEmpty(content string) bool {
	return strings.TrimSpace(content) == ""
}

// =============================================================================
// ORDERING
// =============================================================================

// SortByTimestamp sorts msgs ascending by timestamp in place. Entries with
// equal or unparseable timestamps keep their relative order.
func SortByTimestamp(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Time().Before(msgs[j].Time())
	})
}
