// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the ava command line.
//
// Running ava with no arguments starts the full-screen UI. The subcommands
// drive the same API for scripting and for terminals where a full-screen
// program is unwelcome:
//
//	ava [tui]                         full-screen UI
//	ava chat [--plain]                line-mode chat with history
//	ava login|register [--email E]    start a session / create an account
//	ava logout | whoami
//	ava messages [--json]             list the conversation
//	ava send <text>                   post a message, print the reply
//	ava edit <id> <text> | delete <id>
//	ava export [--format json]        save the conversation to a file
//	ava config show|path|init|get|set
//	ava version
//
// Global flags: --config, --api-url, --log-level.
//
// Errors map to exit codes (see GetExitCode) so scripts can tell a missing
// session from a network failure.
package cli
