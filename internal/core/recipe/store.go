// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import "context"

// Repository defines the data access contract for recipes.
//
// Every call is a single-record atomic operation. Missing rows are reported
// as a [dberr.ErrNotFound] chain.
type Repository interface {
	FindByID(context context.Context, id int64) (*Recipe, error)
	List(context context.Context, limit, offset int) ([]*Recipe, int, error)
	Create(context context.Context, recipe *Recipe) error
	Update(context context.Context, recipe *Recipe) error
	Delete(context context.Context, id int64) error
}
