// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewThemeForMode(t *testing.T) {
	dark := NewThemeForMode("DARK")
	assert.True(t, dark.IsDark)
	assert.Equal(t, ModeDark, dark.Mode)

	light := NewThemeForMode("light")
	assert.False(t, light.IsDark)

	auto := NewThemeForMode("whatever")
	assert.Equal(t, ModeAuto, auto.Mode)
}

func TestLayoutMode(t *testing.T) {
	th := NewTheme()
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		th.SetSize(tt.width, 30)
		assert.Equal(t, tt.want, th.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestStatusRenderersIncludeShapes(t *testing.T) {
	assert.True(t, strings.Contains(RenderSuccess("saved"), StatusIndicators.Success))
	assert.True(t, strings.Contains(RenderError("failed"), StatusIndicators.Error))
	assert.True(t, strings.Contains(RenderWarning("careful"), StatusIndicators.Warning))
	assert.True(t, strings.Contains(RenderInfo("note"), StatusIndicators.Info))
	assert.Contains(t, RenderLink("docs"), "docs")
}
