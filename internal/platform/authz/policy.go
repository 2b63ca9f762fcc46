// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz decides whether a resolved identity may act on an owned resource.

The rule set is closed and deliberately tiny:

  - PublicRead: any authenticated identity may read, list and create.
  - OwnerOrAdminWrite: update and delete require the admin role or ownership.

[Authorize] is a pure function over (role, subject id, owner id, action) so the
whole rule can be exercised exhaustively in tests without HTTP or storage.
*/
package authz

import (
	"errors"

	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
)

// ErrOwnerUnresolved reports a resource whose owner cannot be determined.
// It is a data-integrity failure, not a denial.
var ErrOwnerUnresolved = errors.New("authz: resource owner is unresolved")

// # Actions

// Action is an operation a subject wants to perform on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// # Policies

// Policy is one of the closed set of rule variants.
type Policy int

const (
	// PublicRead allows every authenticated subject.
	PublicRead Policy = iota

	// OwnerOrAdminWrite allows admins and the resource owner.
	OwnerOrAdminWrite
)

// PolicyFor returns the policy that governs action.
//
// Unknown actions fall under the restrictive policy.
func PolicyFor(action Action) Policy {
	switch action {
	case ActionRead, ActionList, ActionCreate:
		return PublicRead
	default:
		return OwnerOrAdminWrite
	}
}

// # Decisions

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Subject is the minimal view of an identity the policy needs.
type Subject struct {
	ID   int64
	Role identity.Role
}

// SubjectOf projects an identity onto a [Subject].
func SubjectOf(who *identity.Identity) Subject {
	if who == nil {
		return Subject{}
	}
	return Subject{ID: who.ID, Role: who.Role}
}

// Authorize evaluates the policy for action.
//
// ownerID is the owner of the target resource. A non-positive ownerID under
// [OwnerOrAdminWrite] yields [ErrOwnerUnresolved], even for admins.
func Authorize(subject Subject, ownerID int64, action Action) (Decision, error) {
	if PolicyFor(action) == PublicRead {
		return Allow, nil
	}

	if ownerID <= 0 {
		return Deny, ErrOwnerUnresolved
	}

	if subject.Role.IsAdmin() || (subject.ID > 0 && subject.ID == ownerID) {
		return Allow, nil
	}

	return Deny, nil
}

// Denied builds the client-facing 403 for a denied action on a recipe.
func Denied(action Action) *apperr.AppError {
	switch action {
	case ActionUpdate:
		return apperr.Forbidden("You are not allowed to edit this recipe")
	case ActionDelete:
		return apperr.Forbidden("You are not allowed to delete this recipe")
	default:
		return apperr.Forbidden("You are not allowed to " + string(action) + " this recipe")
	}
}
