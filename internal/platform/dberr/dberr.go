// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/devhive/devhive/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - err: The raw pgx error.
//   - resource: Human-readable resource name used in NOT_FOUND/CONFLICT messages.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique-constraint violations become client-safe Conflict errors
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// WrapNoRows builds the NOT_FOUND error used when an UPDATE/DELETE statement
// affected zero rows. Exec does not return [pgx.ErrNoRows], so repositories
// call this explicitly after checking the command tag.
func WrapNoRows(resource string) error {
	return apperr.NotFound(resource)
}
