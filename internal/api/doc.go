// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the Ava backend.
//
// Each exported call maps to exactly one request. There is no retry and no
// backoff: a failed call returns its error and the caller decides what to
// show. Session state lives entirely in cookies, so every Client carries an
// http.CookieJar (see package session for the persistent one).
//
// # Endpoints
//
//	GET    /messages/          ListMessages
//	POST   /messages/          SendMessage
//	PUT    /messages/{id}      EditMessage
//	DELETE /messages/{id}      DeleteMessage
//	POST   /users/login        Login
//	POST   /users/register     Register
//	POST   /users/logout       Logout
//	GET    /users/me           CurrentUser
//
// # Errors
//
// Non-2xx responses become *APIError carrying the server's "detail" text.
// ErrorDetail turns any error into the message the UI should show.
package api
