// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authz_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/recipebox/internal/platform/authz"
	"github.com/taibuivan/recipebox/internal/platform/identity"
)

/*
TestAuthorize_OwnerOrAdminWrite exhaustively checks {normal, admin} x {owner, non-owner}
for both mutating actions.
*/
func TestAuthorize_OwnerOrAdminWrite(t *testing.T) {
	const ownerID int64 = 10

	tests := []struct {
		name     string
		role     identity.Role
		subject  int64
		expected authz.Decision
	}{
		{"normal_owner", identity.RoleNormal, ownerID, authz.Allow},
		{"normal_non_owner", identity.RoleNormal, 11, authz.Deny},
		{"admin_owner", identity.RoleAdmin, ownerID, authz.Allow},
		{"admin_non_owner", identity.RoleAdmin, 11, authz.Allow},
	}

	for _, action := range []authz.Action{authz.ActionUpdate, authz.ActionDelete} {
		for _, tt := range tests {
			t.Run(string(action)+"/"+tt.name, func(t *testing.T) {
				decision, err := authz.Authorize(authz.Subject{ID: tt.subject, Role: tt.role}, ownerID, action)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, decision)
			})
		}
	}
}

/*
TestAuthorize_PublicRead verifies that reads, lists and creates are never owner-gated.
*/
func TestAuthorize_PublicRead(t *testing.T) {
	subject := authz.Subject{ID: 1, Role: identity.RoleNormal}

	for _, action := range []authz.Action{authz.ActionRead, authz.ActionList, authz.ActionCreate} {
		decision, err := authz.Authorize(subject, 99, action)
		require.NoError(t, err)
		assert.Equal(t, authz.Allow, decision, "action %s", action)
	}
}

/*
TestAuthorize_UnresolvedOwner verifies that a missing owner is an integrity error.
*/
func TestAuthorize_UnresolvedOwner(t *testing.T) {
	for _, role := range []identity.Role{identity.RoleNormal, identity.RoleAdmin} {
		decision, err := authz.Authorize(authz.Subject{ID: 1, Role: role}, 0, authz.ActionDelete)
		assert.ErrorIs(t, err, authz.ErrOwnerUnresolved)
		assert.Equal(t, authz.Deny, decision)
	}
}

/*
TestAuthorize_ZeroSubjectNeverOwns guards against an empty subject matching an empty owner.
*/
func TestAuthorize_ZeroSubjectNeverOwns(t *testing.T) {
	decision, err := authz.Authorize(authz.SubjectOf(nil), 5, authz.ActionUpdate)
	require.NoError(t, err)
	assert.Equal(t, authz.Deny, decision)
}

/*
TestPolicyFor maps actions onto the closed policy set.
*/
func TestPolicyFor(t *testing.T) {
	assert.Equal(t, authz.PublicRead, authz.PolicyFor(authz.ActionRead))
	assert.Equal(t, authz.PublicRead, authz.PolicyFor(authz.ActionList))
	assert.Equal(t, authz.PublicRead, authz.PolicyFor(authz.ActionCreate))
	assert.Equal(t, authz.OwnerOrAdminWrite, authz.PolicyFor(authz.ActionUpdate))
	assert.Equal(t, authz.OwnerOrAdminWrite, authz.PolicyFor(authz.ActionDelete))
	assert.Equal(t, authz.OwnerOrAdminWrite, authz.PolicyFor(authz.Action("archive")))
}

/*
TestDenied checks the action-specific forbidden messages.
*/
func TestDenied(t *testing.T) {
	edit := authz.Denied(authz.ActionUpdate)
	assert.Equal(t, http.StatusForbidden, edit.HTTPStatus)
	assert.Equal(t, "You are not allowed to edit this recipe", edit.Message)

	del := authz.Denied(authz.ActionDelete)
	assert.Equal(t, http.StatusForbidden, del.HTTPStatus)
	assert.Equal(t, "You are not allowed to delete this recipe", del.Message)
}
