// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth tracks whether the user is logged in and validates
// credentials before they are sent.
//
// Manager is the single source of truth for the authenticated flag. The UI
// reads it to choose between the Login and Home pages; the CLI uses it for
// login, register, logout and whoami.
package auth
