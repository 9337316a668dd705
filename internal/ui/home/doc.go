// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package home implements the Home page shown to logged-in users, with the
// chat widget mounted in the bottom-right corner.
package home
