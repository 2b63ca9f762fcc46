// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/recipebox/internal/platform/database/schema"
	"github.com/taibuivan/recipebox/internal/platform/dberr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var selectAccount = fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s`,
	schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Password,
	schema.UserAccount.Role, schema.UserAccount.CreatedAt, schema.UserAccount.Table,
)

/*
FindByID loads a single account by primary key.
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*identity.Identity, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	account := &identity.Identity{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.Role, &account.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_id")
	}

	return account, nil
}

/*
FindByUsername loads a single account by its unique username.
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*identity.Identity, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.Username)

	account := &identity.Identity{}
	err := repository.db.QueryRow(context, query, username).Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.Role, &account.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_username")
	}

	return account, nil
}

/*
Create inserts the account and lets the database assign ID and CreatedAt.

The unique constraint on username is the final arbiter for concurrent signups.
*/
func (repository *PostgresUserRepository) Create(context context.Context, account *identity.Identity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.ID, schema.UserAccount.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, account.Username, account.PasswordHash, account.Role).
		Scan(&account.ID, &account.CreatedAt)

	return dberr.Wrap(err, "create_user")
}

/*
List returns one page of accounts and the total count.
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*identity.Identity, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.UserAccount.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := selectAccount + fmt.Sprintf(` ORDER BY %s ASC LIMIT $1 OFFSET $2`, schema.UserAccount.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	accounts := make([]*identity.Identity, 0, limit)
	for rows.Next() {
		account := &identity.Identity{}
		if err := rows.Scan(&account.ID, &account.Username, &account.PasswordHash, &account.Role, &account.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	return accounts, total, nil
}
