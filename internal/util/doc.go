// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small file and string helpers shared across ava-tui.
//
// AtomicWriteFile is used for everything written under ~/.ava (config, session
// key). The string helpers are rune- and width-aware so message previews and
// the typing reveal never split a multi-byte character.
package util
