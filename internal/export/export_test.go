// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ava-tui/internal/model"
)

func sampleTranscript() *Transcript {
	return NewTranscript("user@example.com", []model.Message{
		{ID: "2", Content: "You said: hi", IsBot: true, Timestamp: "2024-05-01T10:00:02"},
		{ID: "1", Content: "hi", Timestamp: "2024-05-01T10:00:01"},
	})
}

func TestNewTranscript_SortsCopy(t *testing.T) {
	msgs := []model.Message{
		{ID: "2", Timestamp: "2024-05-01T10:00:02"},
		{ID: "1", Timestamp: "2024-05-01T10:00:01"},
	}
	tr := NewTranscript("", msgs)
	assert.Equal(t, "1", tr.Messages[0].ID)
	assert.Equal(t, "2", msgs[0].ID, "input must not be reordered")
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleTranscript())
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "---\nuser: \"user@example.com\"\n"))
	assert.Contains(t, md, "### You <sub>2024-05-01 10:00:01</sub>")
	assert.Less(t, strings.Index(md, "### You"), strings.Index(md, "### Ava"))
	assert.Contains(t, md, "You said: hi")
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	out, err := NewMarkdownExporter(&Options{}).Export(sampleTranscript())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# Chat with Ava"))
	assert.NotContains(t, string(out), "<sub>")
}

func TestMarkdownExporter_Empty(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(NewTranscript("", nil))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestJSONExporter_KeepsWireNames(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleTranscript())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(out, &raw))
	msgs := raw["messages"].([]any)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "1", first["id_message"])
	assert.Equal(t, false, first["is_bot"])
}

func TestForFormat(t *testing.T) {
	e, err := ForFormat("md", nil)
	require.NoError(t, err)
	assert.Equal(t, ".md", e.FileExtension())

	e, err = ForFormat("JSON", nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", e.MimeType())

	_, err = ForFormat("html", nil)
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path, err := ExportToFile(sampleTranscript(), NewJSONExporter(nil), &Options{OutputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "ava_user@example.com_"))
	assert.Equal(t, ".json", filepath.Ext(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
	assert.Equal(t, "conversation", sanitizeFilename(""))
	assert.Len(t, []rune(sanitizeFilename(strings.Repeat("é", 80))), 50)
}
