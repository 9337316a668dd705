// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model: it routes between the Login and
// Home pages, owns the toast stack, and reacts to config file changes.
//
// # Routes
//
//	/       Home when authenticated, Login otherwise
//	/login  Login, always
//
// The session check runs once in Init. Until it answers the user counts as
// logged out, so Login is what renders first.
package app
