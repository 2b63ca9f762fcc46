// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration, login and the account lookups
the authentication gate relies on.

# Architecture

The account entity itself is [identity.Identity], shared with the gate and
the recipe domain. This package owns how accounts are created, how
credentials are checked and how tokens are handed out.
*/
package auth

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldToken    = "token"
)

// # Constraints

const (
	// MaxUsernameLength is counted in runes after normalization.
	MaxUsernameLength = 50
)

// Credentials is the signup and login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NormalizeUsername trims surrounding whitespace and applies Unicode NFC, so
// that visually identical names map to one account.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}
