// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript to a file.
//
// # Formats
//
//   - Markdown: readable transcript with an optional YAML front matter block
//   - JSON: the messages exactly as the API returned them, plus metadata
//
// # Usage
//
//	t := export.NewTranscript("user@example.com", msgs)
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(nil), nil)
package export
