// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI pieces for the ava TUI.
//
//   - Toast / ToastManager: corner notifications that auto-dismiss. Every
//     failed API call in the UI surfaces as an error toast.
//   - Spinner: the "Loading..." indicator on the login button and the
//     chat input while a send is in flight.
package components
