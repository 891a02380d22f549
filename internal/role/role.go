// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

// Package role defines the permission-group domain of the DevHive platform.
//
// # Architecture
//
// A Role is a named permission group stored in PostgreSQL and referenced by
// user accounts. The catalog of numeric levels and capability flags attached
// to role names lives in the authz package; this package owns only the
// persistent records.
package role

import (
	"time"
)

// Role represents a named permission group.
//
// # Rules
//   - Name is unique and matched case-insensitively.
//   - The seeded set is static; new roles are created rarely and only by
//     super administrators.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
