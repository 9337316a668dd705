// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/ava-tui/internal/model"
)

// Welcome block texts.
const (
	WelcomeTitle = "Hi, I'm Ava 👋"
	WelcomeText  = "Ask me anything"
	ToggleLabel  = "Chat with Ava"
)

// typingCursor trails a reply while it is being revealed.
const typingCursor = "_"

// =============================================================================
// MARKDOWN
// =============================================================================

// markdownRenderer caches a glamour renderer per wrap width. It is shared by
// value copies of Model through a pointer.
type markdownRenderer struct {
	dark     bool
	width    int
	renderer *glamour.TermRenderer
}

func (r *markdownRenderer) render(text string, width int) (string, error) {
	if r.renderer == nil || r.width != width {
		style := "light"
		if r.dark {
			style = "dark"
		}
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		r.renderer, r.width = tr, width
	}
	out, err := r.renderer.Render(text)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the toggle button when closed and the window when open.
func (m Model) View() string {
	if !m.open {
		return m.theme.ToggleButton.Render(ToggleLabel + "  [C-o]")
	}

	w, h := m.WindowSize()
	inner := w - borderRows

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(inner),
		m.renderWelcome(inner),
		m.viewport.View(),
		m.renderInput(inner),
		m.renderFooter(inner),
	)
	return m.theme.ChatBox.
		Width(inner).
		Height(h - borderRows).
		Render(content)
}

func (m Model) renderHeader(width int) string {
	expand := "[C-e] expand"
	if m.expanded {
		expand = "[C-e] compress"
	}
	left := m.theme.ChatTitle.Render("Ava")
	right := m.theme.ChatHint.Render(expand + "  [C-o] close")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.ChatHeader.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderWelcome(width int) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.theme.WelcomeTitle.Width(width).Render(WelcomeTitle),
		m.theme.WelcomeText.Width(width).Render(WelcomeText),
		"",
	)
}

func (m Model) renderInput(width int) string {
	line := m.input.View()
	if m.sending {
		line = m.theme.InputDisabled.Render(m.input.Value()) + "  " + m.spinner.View()
	}
	return m.theme.InputContainer.Width(width).Render(line)
}

func (m Model) renderFooter(width int) string {
	h := help.New()
	h.Width = width
	return h.ShortHelpView(m.keys.ShortHelp())
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// renderMessages renders the whole conversation for the viewport.
func (m Model) renderMessages(width int) string {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		return m.theme.Muted.Render("No messages yet.")
	}
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n")
}

func (m Model) renderMessage(msg model.Message, width int) string {
	align := lipgloss.Left
	if !msg.IsBot {
		align = lipgloss.Right
	}

	meta := m.theme.Sender.Render(msg.Sender())
	if m.showTimestamps {
		if t, ok := model.ParseTimestamp(msg.Timestamp); ok {
			meta += " " + m.theme.Timestamp.Render(humanize.RelTime(t, m.now(), "ago", "from now"))
		}
	}

	var body string
	if msg.ID == m.editingID {
		body = m.renderEditBox(width)
	} else {
		body = m.renderBubble(msg, width)
	}

	lines := []string{meta, body}
	if msg.ID == m.menuFor {
		lines = append(lines, m.theme.Menu.Render(
			m.theme.MenuItem.Render("[e] Edit")+"  "+
				m.theme.MenuItem.Render("[d] Delete")+"  "+
				m.theme.Muted.Render("[esc] close")))
	}

	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, lipgloss.PlaceHorizontal(width, align, l))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderBubble(msg model.Message, width int) string {
	maxInner := max(width*3/4-4, 10)
	typing := msg.ID == m.typingID

	text := msg.Content
	if msg.IsBot && !typing && m.markdown != nil {
		if out, err := m.markdown.render(text, maxInner); err == nil {
			text = out
		}
	}
	if typing {
		text += typingCursor
	}

	style := m.theme.BotBubble
	if !msg.IsBot {
		style = m.theme.UserBubble
	}
	if msg.ID == m.selectedID {
		style = style.BorderStyle(lipgloss.ThickBorder()).BorderForeground(m.theme.SelectedBubble.GetBorderTopForeground())
	}
	if lipgloss.Width(text) > maxInner {
		style = style.Width(maxInner)
	}
	return style.Render(text)
}

func (m Model) renderEditBox(width int) string {
	hint := m.theme.Muted.Render("[enter] save  [esc] cancel")
	if m.editing {
		hint = m.theme.Muted.Render("Saving...")
	}
	return m.theme.EditBox.Width(max(width*3/4, 14)).Render(m.editInput.View() + "\n" + hint)
}
