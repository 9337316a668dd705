// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session keeps the API session cookie between runs.
//
// The Ava backend authenticates with an HttpOnly cookie. A browser keeps it
// across reloads; Jar does the same for the terminal client by writing every
// cookie through to a SQLite database. Cookie values are sealed with
// XChaCha20-Poly1305 under a random key stored next to the database with
// 0600 permissions.
//
// # Usage
//
//	store, err := session.Open(dbPath, keyPath)
//	jar, err := session.NewJar(store, baseURL)
//	client := api.New(baseURL, jar)
//	...
//	jar.Clear() // on logout
//
// A Jar with a nil store behaves like net/http/cookiejar and forgets
// everything at exit. Chat messages are never persisted here.
package session
