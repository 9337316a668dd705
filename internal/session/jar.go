// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/jeranaias/ava-tui/internal/logging"
)

// Jar is an http.CookieJar that writes through to a Store.
type Jar struct {
	mu    sync.RWMutex
	inner *cookiejar.Jar
	store *Store
}

// NewJar creates a jar primed with the cookies stored for base. store may be
// nil for an in-memory jar.
func NewJar(store *Store, base string) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{inner: inner, store: store}
	if store == nil {
		return j, nil
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	cookies, err := store.Load(u.Host)
	if err != nil {
		return nil, err
	}
	if len(cookies) > 0 {
		inner.SetCookies(u, cookies)
		logging.Debug("session restored", "host", u.Host, "cookies", len(cookies))
	}
	return j, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	inner := j.inner
	j.mu.RUnlock()

	inner.SetCookies(u, cookies)
	if j.store == nil {
		return
	}
	// CookieJar has no error path; a failed write only costs persistence.
	if err := j.store.Save(u.Host, cookies); err != nil {
		logging.Warn("failed to persist session cookie", "host", u.Host, "error", err)
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

// Clear forgets every cookie in memory and on disk.
func (j *Jar) Clear() error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()

	if j.store != nil {
		return j.store.Clear()
	}
	return nil
}

// Persistent reports whether cookies survive the process.
func (j *Jar) Persistent() bool {
	return j.store != nil
}
