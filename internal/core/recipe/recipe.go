// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package recipe manages recipe records owned by accounts.

Every route sits behind the authentication gate. Mutations additionally run
through the ownership policy: only the owner or an admin may update or delete
a recipe.

# Precondition order

	gate (router group) -> loadRecipe -> authorize -> handler

A request for a missing recipe therefore never reaches the policy, and an
uploaded image is only written after the policy allowed the mutation.
*/
package recipe

import "time"

// # Domain Entity

// Recipe is a user-owned record. OwnerID is set at creation and never reassigned.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input carries the client supplied fields for create and update.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldRecipe      = "recipe"
	FieldMessage     = "message"
)

// # Constraints

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
)
