// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/recipebox/internal/platform/identity"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Lookups report a missing account as a [dberr.ErrNotFound] chain, and
// Create reports a taken username as [dberr.ErrConflict].
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *identity.Identity: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*identity.Identity, error)

	/*
		FindByUsername returns the account with the given (normalized) username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *identity.Identity: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*identity.Identity, error)

	/*
		Create persists a brand-new account and fills its ID and CreatedAt.

		Parameters:
		  - context: context.Context
		  - account: *identity.Identity

		Returns:
		  - error: dberr.ErrConflict or persistence failures
	*/
	Create(context context.Context, account *identity.Identity) error

	/*
		List returns one page of accounts ordered by ID and the total count.

		Parameters:
		  - context: context.Context
		  - limit, offset: int

		Returns:
		  - []*identity.Identity: Page of accounts
		  - int: Total number of accounts
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*identity.Identity, int, error)
}
