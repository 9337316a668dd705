// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fakeapi is an in-memory stand-in for the Ava backend.
//
// It serves the same eight endpoints as the real service with the same wire
// shapes: an HttpOnly JWT cookie for sessions, bcrypt password hashes, and
// FastAPI-style error bodies ({"detail": "..."} or {"detail": [{"msg": ...}]}).
// Tests wrap it in httptest.NewServer; `ava fake-server` runs it for local
// development.
//
// Per-route request counters and one-shot failure injection let tests assert
// how many calls a UI action made and how it reacts to server errors:
//
//	srv := fakeapi.New()
//	srv.FailNext("DELETE /messages/{id}", http.StatusInternalServerError, "boom")
//	...
//	srv.Count("GET /messages/") // 1
package fakeapi
