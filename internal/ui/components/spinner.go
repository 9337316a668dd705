// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

// lineFrames is ASCII-safe on every terminal.
var lineFrames = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// Spinner is a loading indicator with a label, e.g. "Loading...".
type Spinner struct {
	spinner  spinner.Model
	label    string
	isActive bool
}

// NewSpinner creates an inactive spinner with the given label.
func NewSpinner(label string) Spinner {
	s := spinner.New()
	s.Spinner = lineFrames
	return Spinner{spinner: s, label: label}
}

// Start activates the spinner. The returned command drives the animation.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	return s.spinner.Tick
}

// Stop deactivates the spinner. Pending ticks are dropped by Update.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Update advances the animation. Ticks for other spinners are ignored by the
// bubbles spinner itself.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner, or nothing when inactive.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	frame := lipgloss.NewStyle().Foreground(styles.Purple).Render(s.spinner.View())
	if s.label == "" {
		return frame
	}
	return frame + " " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(s.label)
}
