// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package role

import (
	"context"
)

// Store defines the data access contract for permission groups.
//
// # Review Process
//
// This interface is placed in a separate file from role.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for DevHive is PostgreSQL ([PostgresStore]).
type Store interface {
	// FindByID returns the role with the given ID.
	//
	// Returns [apperr.NotFound] if the role does not exist — including when
	// it has been deleted after being assigned to a user. The authorization
	// engine relies on that distinction to report a data-integrity deny
	// rather than a zero-level role.
	FindByID(ctx context.Context, id string) (*Role, error)

	// FindByName returns the role with the given name (case-insensitive).
	//
	// Returns [apperr.NotFound] if no such role exists.
	FindByName(ctx context.Context, name string) (*Role, error)

	// ListAll returns every role, ordered by name.
	ListAll(ctx context.Context) ([]Role, error)

	// Create persists a brand-new role.
	//
	// Returns [apperr.Conflict] if the name is already taken.
	Create(ctx context.Context, role *Role) error
}
