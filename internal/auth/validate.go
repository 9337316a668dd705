// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Validation messages shown under the form fields.
const (
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgInvalidPassword = "Password must be at least 8 characters long and contain at least one number."
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors holds one message per invalid field. Empty means valid.
type FieldErrors struct {
	Email    string
	Password string
}

// OK reports whether both fields passed.
func (f FieldErrors) OK() bool {
	return f.Email == "" && f.Password == ""
}

// NormalizeEmail trims and NFKC-normalizes an address so full-width or
// compatibility characters pasted from elsewhere compare equal.
func NormalizeEmail(email string) string {
	return norm.NFKC.String(strings.TrimSpace(email))
}

// ValidateCredentials checks the form before any network call.
func ValidateCredentials(email, password string) FieldErrors {
	var fe FieldErrors
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		fe.Email = MsgInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength || !strings.ContainsFunc(password, unicode.IsDigit) {
		fe.Password = MsgInvalidPassword
	}
	return fe
}
