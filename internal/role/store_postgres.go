// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package role

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devhive/devhive/internal/platform/dberr"
)

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the role [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FindByID retrieves a role record by its unique identifier.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Role, error) {
	const query = `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		WHERE id = $1`

	return store.scanOne(ctx, query, id)
}

// FindByName retrieves a role record by name, case-insensitively.
func (store *PostgresStore) FindByName(ctx context.Context, name string) (*Role, error) {
	const query = `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		WHERE LOWER(name) = LOWER($1)`

	return store.scanOne(ctx, query, name)
}

// ListAll returns every role ordered by name.
func (store *PostgresStore) ListAll(ctx context.Context) ([]Role, error) {
	const query = `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		ORDER BY name`

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Role")
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "Role")
		}
		roles = append(roles, r)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Role")
	}

	return roles, nil
}

// Create persists a new role record.
func (store *PostgresStore) Create(ctx context.Context, role *Role) error {
	const query = `
		INSERT INTO roles (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	now := time.Now()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	role.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		role.ID,
		role.Name,
		role.Description,
		role.CreatedAt,
		role.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Role")
	}

	return nil
}

// scanOne executes a single-row role query and maps storage errors.
func (store *PostgresStore) scanOne(ctx context.Context, query string, args ...any) (*Role, error) {
	var r Role
	err := store.pool.QueryRow(ctx, query, args...).Scan(
		&r.ID,
		&r.Name,
		&r.Description,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Role")
	}

	return &r, nil
}
