// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ava-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)

	// LabelStyle is used for left-aligned field labels.
	LabelStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Width(18)

	// ValueStyle is used for plain values.
	ValueStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	// DimStyle is used for ids and timestamps.
	DimStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	// UserStyle labels the user's lines in chat output.
	UserStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Purple)

	// BotStyle labels Ava's lines in chat output.
	BotStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)

	// PromptStyle is the REPL prompt.
	PromptStyle = lipgloss.NewStyle().Foreground(styles.Purple)
)

// RenderLabel renders "label:" padded to the label column.
func RenderLabel(label string) string {
	return LabelStyle.Render(label + ":")
}
