// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

// PostgreSQL implementation of the user [Store].
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types via dberr to avoid leaking storage implementation
// details.

package user

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devhive/devhive/internal/platform/dberr"
	"github.com/devhive/devhive/pkg/pagination"
)

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the user [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create persists a new member record into the users table.
func (store *PostgresStore) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, full_name, email, password_hash, role_id, experience_level, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		nullableString(user.ExperienceLevel),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

// FindByID retrieves a member record by its unique identifier.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, full_name, email, password_hash, role_id, experience_level, created_at, updated_at
		FROM users
		WHERE id = $1`

	return store.scanOne(ctx, query, id)
}

// FindByEmail retrieves a member record by their unique email address.
func (store *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, full_name, email, password_hash, role_id, experience_level, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`

	return store.scanOne(ctx, query, email)
}

// List returns one page of member records plus the total count.
func (store *PostgresStore) List(ctx context.Context, page pagination.Params) ([]User, int, error) {
	const countQuery = `SELECT COUNT(*) FROM users`

	var total int
	if err := store.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	const query = `
		SELECT id, full_name, email, password_hash, role_id, experience_level, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := store.pool.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var experience *string
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.RoleID, &experience, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "User")
		}
		if experience != nil {
			u.ExperienceLevel = *experience
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	return users, total, nil
}

// Update persists mutable profile fields.
func (store *PostgresStore) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE users
		SET full_name = $2, email = $3, experience_level = $4, updated_at = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now()

	tag, err := store.pool.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		nullableString(user.ExperienceLevel),
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.WrapNoRows("User")
	}

	return nil
}

// UpdateRole replaces only the role reference of an account.
func (store *PostgresStore) UpdateRole(ctx context.Context, userID string, roleID *string) error {
	const query = `
		UPDATE users
		SET role_id = $2, updated_at = $3
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, userID, roleID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.WrapNoRows("User")
	}

	return nil
}

// UpdatePassword replaces only the password hash of an account.
func (store *PostgresStore) UpdatePassword(ctx context.Context, userID, newHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, userID, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.WrapNoRows("User")
	}

	return nil
}

// Delete removes an account row permanently.
func (store *PostgresStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.WrapNoRows("User")
	}

	return nil
}

// scanOne executes a single-row user query and maps storage errors.
func (store *PostgresStore) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	var experience *string
	err := store.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.RoleID,
		&experience,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	if experience != nil {
		u.ExperienceLevel = *experience
	}

	return &u, nil
}

// nullableString converts an empty string to a NULL-able pointer.
func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
