// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"context"
	"fmt"

	"github.com/taibuivan/recipebox/internal/platform/database/schema"
	"github.com/taibuivan/recipebox/internal/platform/dberr"
	"github.com/taibuivan/recipebox/internal/platform/postgres"
)

type PostgresRepository struct {
	db postgres.DBTX
}

func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectRecipe = fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s`,
	schema.CoreRecipe.ID, schema.CoreRecipe.Title, schema.CoreRecipe.Description, schema.CoreRecipe.Image,
	schema.CoreRecipe.OwnerID, schema.CoreRecipe.CreatedAt, schema.CoreRecipe.UpdatedAt,
	schema.CoreRecipe.Table,
)

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Recipe, error) {
	query := selectRecipe + fmt.Sprintf(` WHERE %s = $1`, schema.CoreRecipe.ID)

	r := &Recipe{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&r.ID, &r.Title, &r.Description, &r.Image, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_recipe")
	}

	return r, nil
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Recipe, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CoreRecipe.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_recipes")
	}

	query := selectRecipe + fmt.Sprintf(` ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2`,
		schema.CoreRecipe.CreatedAt, schema.CoreRecipe.ID,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_recipes")
	}
	defer rows.Close()

	recipes := make([]*Recipe, 0, limit)
	for rows.Next() {
		r := &Recipe{}
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Image, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_recipe")
		}
		recipes = append(recipes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_recipes")
	}

	return recipes, total, nil
}

// Create inserts the recipe. The owner foreign key rejects unknown accounts.
func (repository *PostgresRepository) Create(context context.Context, r *Recipe) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.CoreRecipe.Table, schema.CoreRecipe.Title, schema.CoreRecipe.Description, schema.CoreRecipe.Image,
		schema.CoreRecipe.OwnerID, schema.CoreRecipe.CreatedAt, schema.CoreRecipe.UpdatedAt,
		schema.CoreRecipe.ID, schema.CoreRecipe.CreatedAt, schema.CoreRecipe.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, r.Title, r.Description, r.Image, r.OwnerID).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	return dberr.Wrap(err, "create_recipe")
}

// Update rewrites the mutable columns. The owner column is never touched.
func (repository *PostgresRepository) Update(context context.Context, r *Recipe) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreRecipe.Table, schema.CoreRecipe.Title, schema.CoreRecipe.Description, schema.CoreRecipe.Image,
		schema.CoreRecipe.UpdatedAt, schema.CoreRecipe.ID, schema.CoreRecipe.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, r.ID, r.Title, r.Description, r.Image).Scan(&r.UpdatedAt)
	return dberr.Wrap(err, "update_recipe")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreRecipe.Table, schema.CoreRecipe.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_recipe")
	}

	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete_recipe: %w", dberr.ErrNotFound)
	}
	return nil
}
