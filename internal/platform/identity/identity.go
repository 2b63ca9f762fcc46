// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity defines the principal that flows through the request lifecycle.

An [Identity] is the hydrated account record resolved by the authentication gate
from the credential store. It is the only representation of "who is calling"
that handlers and the authorization policy are allowed to look at.

The package is a leaf: it imports nothing from the application so that context
helpers, the token service and every domain can share the type without cycles.
*/
package identity

import "time"

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted access, may mutate any recipe
	RoleAdmin Role = "admin"

	// Default role for registered users
	RoleNormal Role = "normal"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNormal:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// # Domain Entity

// Identity is a registered account.
//
// Role is immutable from the point of view of this service: it is set to
// [RoleNormal] at signup and only ever changed out-of-band.
type Identity struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialised.
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role.IsAdmin()
}
