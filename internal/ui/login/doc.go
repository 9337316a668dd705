// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the Login page: one form that switches between
// logging in and registering.
//
// Credentials are validated locally first; an invalid form shows messages
// under the fields and never reaches the network. A successful login emits
// NavigateMsg{Path: "/"}; a successful registration switches back to login
// mode and emits NavigateMsg{Path: "/login"}.
package login
