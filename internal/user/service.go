// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/platform/ctxutil"
	"github.com/devhive/devhive/internal/platform/sec"
	"github.com/devhive/devhive/internal/platform/validate"
	"github.com/devhive/devhive/pkg/pagination"
	"github.com/devhive/devhive/pkg/uuidv7"
)

// defaultRoleName is assigned when an account is created without an explicit
// role. Members can still be promoted later via [Service.UpdateRole].
const defaultRoleName = "developer"

// RoleDirectory is the subset of the role domain the user service needs to
// resolve role names into identifiers.
type RoleDirectory interface {
	// IDByName resolves a role name to its ID, returning an empty string
	// (without error) when the role does not exist.
	IDByName(ctx context.Context, name string) (string, error)
}

// Service implements member-account use cases.
type Service struct {
	store Store
	roles RoleDirectory
}

// NewService constructs a new user [Service] with its dependencies.
func NewService(store Store, roles RoleDirectory) *Service {
	return &Service{store: store, roles: roles}
}

// CreateInput holds the data required to enroll a new member.
type CreateInput struct {
	FullName        string
	Email           string
	Password        string
	RoleName        string // Optional; defaults to the developer role.
	ExperienceLevel string // Optional self-reported seniority.
}

// Create validates, hashes, and persists a brand new member account.
//
// # Business Rules
//   - Emails must be unique.
//   - An unknown RoleName is a validation failure, not a silent default.
//   - Accounts without an explicit role receive the developer role.
func (service *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	// ── 1. Uniqueness Check ───────────────────────────────────────────────

	_, err := service.store.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("user_service_email_lookup_failed: %w", err)
	}

	// ── 2. Role Resolution ────────────────────────────────────────────────

	roleName := strings.ToLower(strings.TrimSpace(input.RoleName))
	explicit := roleName != ""
	if !explicit {
		roleName = defaultRoleName
	}

	roleID, err := service.roles.IDByName(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("user_service_role_lookup_failed: %w", err)
	}
	if roleID == "" {
		if explicit {
			return nil, validate.RequiredError("role_type", "Unknown role: "+roleName)
		}
		// The seeded default role is missing — a deployment fault, not a
		// client mistake.
		return nil, apperr.Internal(fmt.Errorf("user_service_default_role_missing: %q", roleName))
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction & Persistence ──────────────────────────────

	created := &User{
		ID:              uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		FullName:        input.FullName,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:    hashedPassword,
		RoleID:          &roleID,
		ExperienceLevel: input.ExperienceLevel,
	}

	if err := service.store.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("user_service_create_failed: %w", err)
	}

	return created, nil
}

// Authenticate verifies an email/password pair and returns the matching account.
//
// Returns a generic [apperr.Unauthorized] on any mismatch to prevent
// account enumeration.
func (service *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	found, err := service.store.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("user_service_auth_lookup_failed: %w", err)
	}

	// Bcrypt comparison is constant-time, preventing timing attacks.
	if !sec.CheckPasswordHash(password, found.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return found, nil
}

// List returns one page of member accounts plus pagination metadata.
func (service *Service) List(ctx context.Context, page pagination.Params) ([]User, pagination.Meta, error) {
	users, total, err := service.store.List(ctx, page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("user_service_list_failed: %w", err)
	}

	return users, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// GetByID returns a single member account.
func (service *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return service.store.FindByID(ctx, id)
}

// GetByEmail returns a single member account by email.
func (service *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return service.store.FindByEmail(ctx, email)
}

// UpdateInput holds the mutable profile fields.
type UpdateInput struct {
	FullName        *string
	Email           *string
	ExperienceLevel *string
}

// Update applies partial profile changes to an existing account.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*User, error) {
	existing, err := service.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		existing.FullName = *input.FullName
	}
	if input.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*input.Email))
		if newEmail != existing.Email {
			// Changing email re-checks uniqueness before hitting the constraint.
			if _, lookupErr := service.store.FindByEmail(ctx, newEmail); lookupErr == nil {
				return nil, apperr.Conflict("Email is already registered")
			} else if !apperr.IsNotFound(lookupErr) {
				return nil, fmt.Errorf("user_service_email_lookup_failed: %w", lookupErr)
			}
			existing.Email = newEmail
		}
	}
	if input.ExperienceLevel != nil {
		existing.ExperienceLevel = *input.ExperienceLevel
	}

	if err := service.store.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("user_service_update_failed: %w", err)
	}

	return existing, nil
}

// UpdatePassword replaces an account's password hash.
func (service *Service) UpdatePassword(ctx context.Context, id, newPassword string) error {
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("user_service_hash_failed: %w", err)
	}

	if err := service.store.UpdatePassword(ctx, id, hashedPassword); err != nil {
		return fmt.Errorf("user_service_password_update_failed: %w", err)
	}

	return nil
}

// Delete removes an account permanently.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.store.Delete(ctx, id); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_deleted", slog.String("user_id", id))
	return nil
}

// UpdateRole reassigns an account to a different permission group by name.
//
// The change is immediately visible to the authorization engine because
// principals are re-fetched on every request (no token re-issue needed).
func (service *Service) UpdateRole(ctx context.Context, userID, roleName string) (*User, error) {
	existing, err := service.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	roleID, err := service.roles.IDByName(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("user_service_role_lookup_failed: %w", err)
	}
	if roleID == "" {
		return nil, validate.RequiredError("role_type", "Unknown role: "+roleName)
	}

	if err := service.store.UpdateRole(ctx, userID, &roleID); err != nil {
		return nil, fmt.Errorf("user_service_role_update_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_role_updated",
		slog.String("user_id", userID),
		slog.String("email", existing.Email),
		slog.String("new_role", strings.ToLower(roleName)),
	)

	existing.RoleID = &roleID
	return existing, nil
}
