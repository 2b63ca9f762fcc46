// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// the sentinel errors that services translate into client responses.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a queried row doesn't exist.
	ErrNotFound = errors.New("dberr: not found")

	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("dberr: conflict")

	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("dberr: foreign key violation")
)

// Wrap inspects a database error and classifies it.
//
// Known conditions become one of the sentinels above (still wrapping the
// original for logs); anything else is wrapped with the action name. The
// result never reaches clients directly: services map it onto an AppError.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}

	// 2. Constraint violations reported by Postgres
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w: %w", action, ErrConflict, err)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w: %w", action, ErrForeignKey, err)
		}
	}

	// 3. Everything else is an unexpected storage failure
	return fmt.Errorf("%s: %w", action, err)
}

// IsNotFound reports whether err is (or wraps) [ErrNotFound].
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
