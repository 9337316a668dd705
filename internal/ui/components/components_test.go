// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestNewErrorToast(t *testing.T) {
	toast := NewErrorToast("Error sending message")

	if toast.Message != "Error sending message" {
		t.Errorf("Expected message 'Error sending message', got '%s'", toast.Message)
	}
	if toast.Kind != ToastKindError {
		t.Errorf("Expected ToastKindError, got %v", toast.Kind)
	}
	if toast.Duration != ErrorToastDuration {
		t.Errorf("Expected duration %v, got %v", ErrorToastDuration, toast.Duration)
	}
}

func TestToastIsExpired(t *testing.T) {
	toast := NewStatusToast("Test")
	toast.Duration = 10 * time.Millisecond
	toast.CreatedAt = time.Now().Add(-20 * time.Millisecond)
	if !toast.IsExpired() {
		t.Error("Toast should be expired")
	}
	if toast.TimeRemaining() != 0 {
		t.Error("Expired toast should have no time remaining")
	}

	fresh := NewStatusToast("Fresh")
	if fresh.IsExpired() {
		t.Error("Fresh toast should not be expired")
	}
}

func TestToastManager(t *testing.T) {
	m := NewToastManager()
	if m.HasToasts() {
		t.Error("New manager should have no toasts")
	}

	id1 := m.AddError("Error 1")
	m.AddWarning("Warning 1")
	if id1 == 0 {
		t.Error("Expected non-zero toast ID")
	}

	toasts := m.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("Expected 2 toasts, got %d", len(toasts))
	}
	if toasts[0].Message != "Warning 1" {
		t.Errorf("Newest toast should come first, got %q", toasts[0].Message)
	}

	m.Remove(id1)
	if len(m.Toasts()) != 1 {
		t.Error("Remove should drop the toast")
	}

	if !m.DismissNewest() || m.HasToasts() {
		t.Error("DismissNewest should empty the manager")
	}
	if m.DismissNewest() {
		t.Error("DismissNewest on empty manager should report false")
	}
}

func TestToastManagerMaxToasts(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < MaxToasts+3; i++ {
		m.AddStatus("status")
	}
	if got := len(m.Toasts()); got != MaxToasts {
		t.Errorf("Expected %d toasts, got %d", MaxToasts, got)
	}
}

func TestToastManagerTick(t *testing.T) {
	m := NewToastManager()
	expired := NewStatusToast("old")
	expired.CreatedAt = time.Now().Add(-time.Hour)
	m.Add(expired)
	m.AddSuccess("new")

	remaining := m.Tick()
	if len(remaining) != 1 || remaining[0].Message != "new" {
		t.Errorf("Tick should keep only live toasts, got %+v", remaining)
	}
}

func TestShowErrorEmitsToastMsg(t *testing.T) {
	msg := ShowError("Error fetching messages")()
	tm, ok := msg.(ToastMsg)
	if !ok {
		t.Fatalf("Expected ToastMsg, got %T", msg)
	}
	if tm.Kind != ToastKindError || tm.Message != "Error fetching messages" {
		t.Errorf("Unexpected toast: %+v", tm)
	}
}

func TestRenderToastContainsMessage(t *testing.T) {
	out := RenderToast(NewErrorToast("Message not found"), 80)
	if !strings.Contains(out, "Message not found") {
		t.Error("Rendered toast should contain the message")
	}
	if RenderToastStack(nil, 80) != "" {
		t.Error("Empty stack should render nothing")
	}
}

func TestWrapToastText(t *testing.T) {
	got := wrapToastText("one two three four five", 9)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 9 {
			t.Errorf("Line %q exceeds width", line)
		}
	}
	if wrapToastText("short", 20) != "short" {
		t.Error("Short text should be unchanged")
	}
}

func TestSpinner(t *testing.T) {
	s := NewSpinner("Loading...")
	if s.View() != "" {
		t.Error("Inactive spinner should render nothing")
	}
	if cmd := s.Start(); cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() || !strings.Contains(s.View(), "Loading...") {
		t.Error("Active spinner should show its label")
	}
	s.Stop()
	if s.IsActive() {
		t.Error("Stop should deactivate")
	}
}
