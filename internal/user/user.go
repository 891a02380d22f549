// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

// Package user defines the member-account domain of the DevHive platform.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package user

import (
	"time"
)

// Experience levels self-reported by members. Registration uses them to
// suggest a starting role (see the authz catalog).
const (
	ExperienceBeginner  = "beginner"
	ExperienceJunior    = "junior"
	ExperienceMidLevel  = "mid_level"
	ExperienceSenior    = "senior"
	ExperienceLead      = "lead"
	ExperienceManager   = "manager"
	ExperiencePrincipal = "principal"
	ExperienceArchitect = "architect"
)

// ExperienceLevels lists every accepted experience level, in seniority order.
var ExperienceLevels = []string{
	ExperienceBeginner,
	ExperienceJunior,
	ExperienceMidLevel,
	ExperienceSenior,
	ExperienceLead,
	ExperienceManager,
	ExperiencePrincipal,
	ExperienceArchitect,
}

// User represents a registered member of the DevHive platform.
//
// # Rules
//   - Email is unique and validated.
//   - PasswordHash is generated via Bcrypt exclusively by the auth service.
//   - RoleID is nil for members without an assigned permission group; such
//     members can still access their own resources via ownership checks.
//   - ID is immutable once created.
type User struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // Explicitly omitted from JSON for security.
	RoleID          *string   `json:"role_id,omitempty"`
	ExperienceLevel string    `json:"experience_level,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
