// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package role

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/platform/ctxutil"
	"github.com/devhive/devhive/pkg/uuidv7"
)

// Service implements role management use cases.
type Service struct {
	store Store
}

// NewService constructs a new role [Service].
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every role, ordered by name.
func (service *Service) List(ctx context.Context) ([]Role, error) {
	roles, err := service.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("role_service_list_failed: %w", err)
	}
	return roles, nil
}

// GetByName returns the role with the given name (case-insensitive).
func (service *Service) GetByName(ctx context.Context, name string) (*Role, error) {
	return service.store.FindByName(ctx, strings.ToLower(name))
}

// IDByName resolves a role name to its identifier.
//
// Returns an empty string without error when the role does not exist, so
// callers can produce their own field-level validation message.
func (service *Service) IDByName(ctx context.Context, name string) (string, error) {
	found, err := service.store.FindByName(ctx, name)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return found.ID, nil
}

// CreateInput holds the data required to register a new permission group.
type CreateInput struct {
	Name        string
	Description string
}

// Create registers a brand-new role.
//
// # Business Rules
//   - Names are unique case-insensitively.
//   - Reserved for super administrators; the HTTP layer enforces the guard.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Role, error) {
	// ── 1. Uniqueness Check ───────────────────────────────────────────────

	_, err := service.store.FindByName(ctx, input.Name)
	if err == nil {
		return nil, apperr.Conflict("Role '" + input.Name + "' already exists")
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("role_service_create_lookup_failed: %w", err)
	}

	// ── 2. Entity Construction ────────────────────────────────────────────

	created := &Role{
		ID:          uuidv7.New(),
		Name:        strings.ToLower(strings.TrimSpace(input.Name)),
		Description: input.Description,
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := service.store.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("role_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "role_created",
		slog.String("role", created.Name),
	)

	return created, nil
}
