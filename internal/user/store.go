// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package user

import (
	"context"

	"github.com/devhive/devhive/pkg/pagination"
)

// Store defines the data access contract for member accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for DevHive is PostgreSQL ([PostgresStore]).
type Store interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist. The
	// authorization engine calls this on every authenticated request, so
	// the query must stay a single indexed lookup.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no member is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List returns one page of accounts plus the total count.
	List(ctx context.Context, page pagination.Params) ([]User, int, error)

	// Create persists a brand-new member account.
	//
	// Returns [apperr.Conflict] if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// Update persists changes to mutable profile fields (FullName, Email,
	// ExperienceLevel). Role and password changes use their own methods to
	// prevent accidental overwrites during unrelated profile updates.
	Update(ctx context.Context, user *User) error

	// UpdateRole replaces only the account's role reference.
	// A nil roleID clears the assignment.
	UpdateRole(ctx context.Context, userID string, roleID *string) error

	// UpdatePassword replaces only the account's password hash.
	UpdatePassword(ctx context.Context, userID, newHash string) error

	// Delete removes the account row.
	Delete(ctx context.Context, id string) error
}
