// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ava TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The detection can be overridden with the ui.theme setting.

# Color System (colors.go)

  - Purple - Ava's accent: bot bubbles, the chat header, the toggle button
  - Cyan - user highlights, prompts, focused fields
  - Emerald - success toasts
  - Amber - warnings
  - Rose - errors and field validation messages

Surfaces and text follow the same layered scheme (Surface, SurfaceDim,
Overlay; TextPrimary, TextSecondary, TextMuted).

# Theme System (theme.go)

	theme := styles.NewThemeForMode(cfg.UI.Theme) // "dark", "light" or "auto"
	bubble := theme.BotBubble.Render(text)

Status indicators are ASCII shapes ([OK], [X], [!], [i]) so state never
depends on color alone.
*/
package styles
