// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Credentials is the body of login and register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the payload of /users/me. Only the fields ava shows are decoded;
// Raw keeps the full document.
type User struct {
	ID    string
	Email string
	Raw   json.RawMessage
}

// UnmarshalJSON accepts numeric or string ids under "id" or "id_user".
func (u *User) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID     any    `json:"id"`
		IDUser any    `json:"id_user"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.Email = aux.Email
	switch {
	case aux.IDUser != nil:
		u.ID = idString(aux.IDUser)
	case aux.ID != nil:
		u.ID = idString(aux.ID)
	}
	u.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func idString(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login starts a session. On success the server sets the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/users/login", Credentials{Email: email, Password: password}, nil)
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/users/register", Credentials{Email: email, Password: password}, nil)
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout", nil, nil)
}

// CurrentUser returns the logged-in user, or an error wrapping
// ErrUnauthorized when there is no valid session.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
