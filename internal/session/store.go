// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	_ "modernc.org/sqlite"

	"github.com/jeranaias/ava-tui/internal/util"
)

// Schema holds one row per cookie, keyed like a browser cookie store.
const Schema = `
CREATE TABLE IF NOT EXISTS cookies (
	host      TEXT    NOT NULL,
	name      TEXT    NOT NULL,
	path      TEXT    NOT NULL DEFAULT '/',
	value     BLOB    NOT NULL,
	expires   INTEGER NOT NULL DEFAULT 0,
	secure    INTEGER NOT NULL DEFAULT 0,
	http_only INTEGER NOT NULL DEFAULT 0,
	updated   INTEGER NOT NULL,
	PRIMARY KEY (host, name, path)
);
`

// ErrCorruptKey is returned when the key file exists but is not a valid key.
var ErrCorruptKey = errors.New("session key file is corrupt")

// Store persists cookies in SQLite with sealed values.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	aead cipher.AEAD
	now  func() time.Time
}

// Open opens (creating if needed) the cookie database at dbPath, sealing
// values with the key at keyPath.
func Open(dbPath, keyPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// One writer at a time; the TUI and a concurrent CLI call may share the file.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close()
		return nil, fmt.Errorf("failed to secure session database: %w", err)
	}

	return &Store{db: db, aead: aead, now: time.Now}, nil
}

// loadOrCreateKey reads a 32-byte key, generating it on first use.
func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("%w: %s", ErrCorruptKey, path)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read session key: %w", err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	if err := util.AtomicWriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to write session key: %w", err)
	}
	return key, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// SEALING
// =============================================================================

// The additional data binds a sealed value to its row so values cannot be
// swapped between cookies.
func aad(host, name string) []byte {
	return []byte(host + "\x00" + name)
}

func (s *Store) seal(host, name, value string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, []byte(value), aad(host, name)), nil
}

func (s *Store) open(host, name string, sealed []byte) (string, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns {
		return "", errors.New("sealed value too short")
	}
	plain, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], aad(host, name))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// =============================================================================
// COOKIE OPERATIONS
// =============================================================================

// expiry returns the absolute expiry of c, zero for no expiry, and whether c
// asks to be deleted.
func expiry(c *http.Cookie, now time.Time) (time.Time, bool) {
	switch {
	case c.MaxAge < 0:
		return time.Time{}, true
	case c.MaxAge > 0:
		return now.Add(time.Duration(c.MaxAge) * time.Second), false
	case !c.Expires.IsZero():
		return c.Expires, !c.Expires.After(now)
	default:
		return time.Time{}, false
	}
}

// Save records cookies received from host. Deleting cookies (past expiry or
// negative Max-Age) remove their row.
func (s *Store) Save(host string, cookies []*http.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		exp, remove := expiry(c, now)
		if remove || c.Value == "" {
			if _, err := tx.Exec("DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?", host, c.Name, path); err != nil {
				return fmt.Errorf("failed to delete cookie: %w", err)
			}
			continue
		}

		sealed, err := s.seal(host, c.Name, c.Value)
		if err != nil {
			return fmt.Errorf("failed to seal cookie: %w", err)
		}
		var expUnix int64
		if !exp.IsZero() {
			expUnix = exp.Unix()
		}
		_, err = tx.Exec(`
			INSERT INTO cookies (host, name, path, value, expires, secure, http_only, updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (host, name, path) DO UPDATE SET
				value = excluded.value,
				expires = excluded.expires,
				secure = excluded.secure,
				http_only = excluded.http_only,
				updated = excluded.updated`,
			host, c.Name, path, sealed, expUnix, c.Secure, c.HttpOnly, now.Unix())
		if err != nil {
			return fmt.Errorf("failed to store cookie: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns the unexpired cookies stored for host. Rows that fail to
// unseal (for example after the key file was replaced) are dropped.
func (s *Store) Load(host string) ([]*http.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rows, err := s.db.Query(
		"SELECT name, path, value, expires, secure, http_only FROM cookies WHERE host = ?", host)
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*http.Cookie
	var stale []string
	for rows.Next() {
		var (
			name, path       string
			sealed           []byte
			expires          int64
			secure, httpOnly bool
		)
		if err := rows.Scan(&name, &path, &sealed, &expires, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}
		if expires != 0 && !time.Unix(expires, 0).After(now) {
			stale = append(stale, name)
			continue
		}
		value, err := s.open(host, name, sealed)
		if err != nil {
			stale = append(stale, name)
			continue
		}
		c := &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     path,
			Secure:   secure,
			HttpOnly: httpOnly,
		}
		if expires != 0 {
			c.Expires = time.Unix(expires, 0)
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, name := range stale {
		if _, err := s.db.Exec("DELETE FROM cookies WHERE host = ? AND name = ?", host, name); err != nil {
			return nil, fmt.Errorf("failed to prune cookie: %w", err)
		}
	}
	return cookies, nil
}

// Clear removes every stored cookie.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM cookies"); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

// Count returns the number of stored cookies.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM cookies").Scan(&n)
	return n, err
}
