// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/ava-tui/internal/api"
	"github.com/jeranaias/ava-tui/internal/fakeapi"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(dir, "session.db"), filepath.Join(dir, "session.key"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// STORE
// =============================================================================

func TestOpen_CreatesKeyWithPrivatePermissions(t *testing.T) {
	dir := t.TempDir()
	openTestStore(t, dir)

	info, err := os.Stat(filepath.Join(dir, "session.key"))
	require.NoError(t, err)
	assert.Equal(t, int64(32), info.Size())
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestOpen_RejectsCorruptKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.key"), []byte("short"), 0600))

	_, err := Open(filepath.Join(dir, "session.db"), filepath.Join(dir, "session.key"))
	assert.ErrorIs(t, err, ErrCorruptKey)
}

func TestStore_SaveLoadSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	require.NoError(t, s.Save("api.example.com", []*http.Cookie{
		{Name: "access_token", Value: "secret-token", Path: "/", HttpOnly: true},
	}))
	require.NoError(t, s.Close())

	s2 := openTestStore(t, dir)
	cookies, err := s2.Load("api.example.com")
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "secret-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// Other hosts see nothing.
	other, err := s2.Load("evil.example.com")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_ValueIsNotStoredInPlaintext(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	require.NoError(t, s.Save("h", []*http.Cookie{{Name: "access_token", Value: "plaintext-marker"}}))

	var raw []byte
	require.NoError(t, s.db.QueryRow("SELECT value FROM cookies").Scan(&raw))
	assert.NotContains(t, string(raw), "plaintext-marker")
}

func TestStore_DeletingCookieRemovesRow(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	require.NoError(t, s.Save("h", []*http.Cookie{{Name: "access_token", Value: "v"}}))
	require.NoError(t, s.Save("h", []*http.Cookie{{Name: "access_token", Value: "", MaxAge: -1}}))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_ExpiredCookiesArePruned(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	base := time.Now()
	s.now = func() time.Time { return base }
	require.NoError(t, s.Save("h", []*http.Cookie{{Name: "access_token", Value: "v", MaxAge: 60}}))

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	cookies, err := s.Load("h")
	require.NoError(t, err)
	assert.Empty(t, cookies)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_NewKeyDropsOldValues(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)
	require.NoError(t, s.Save("h", []*http.Cookie{{Name: "access_token", Value: "v"}}))
	require.NoError(t, s.Close())
	require.NoError(t, os.Remove(filepath.Join(dir, "session.key")))

	s2 := openTestStore(t, dir)
	cookies, err := s2.Load("h")
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

// =============================================================================
// JAR
// =============================================================================

func TestJar_InMemory(t *testing.T) {
	j, err := NewJar(nil, "http://localhost:8000")
	require.NoError(t, err)
	assert.False(t, j.Persistent())

	u, _ := url.Parse("http://localhost:8000/users/login")
	j.SetCookies(u, []*http.Cookie{{Name: "access_token", Value: "v", Path: "/"}})
	assert.Len(t, j.Cookies(u), 1)

	require.NoError(t, j.Clear())
	assert.Empty(t, j.Cookies(u))
}

func TestJar_SessionSurvivesRestart(t *testing.T) {
	srv := fakeapi.New(fakeapi.WithBcryptCost(bcrypt.MinCost))
	ts := httptest.NewServer(srv)
	defer ts.Close()
	require.NoError(t, srv.AddUser("user@example.com", "password123"))

	dir := t.TempDir()
	ctx := context.Background()

	store := openTestStore(t, dir)
	jar, err := NewJar(store, ts.URL)
	require.NoError(t, err)
	require.True(t, jar.Persistent())
	require.NoError(t, api.New(ts.URL, jar).Login(ctx, "user@example.com", "password123"))
	require.NoError(t, store.Close())

	// A fresh process: new store, new jar, no login.
	store2 := openTestStore(t, dir)
	jar2, err := NewJar(store2, ts.URL)
	require.NoError(t, err)
	u, err := api.New(ts.URL, jar2).CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", u.Email)

	// Clearing forgets the session everywhere.
	require.NoError(t, jar2.Clear())
	_, err = api.New(ts.URL, jar2).CurrentUser(ctx)
	assert.True(t, api.IsUnauthorized(err))
	n, err := store2.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
