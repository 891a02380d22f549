// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package role_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/role"
)

// memoryStore is an in-memory role.Store.
type memoryStore struct {
	byID map[string]*role.Role
}

func newMemoryStore(seed ...*role.Role) *memoryStore {
	store := &memoryStore{byID: map[string]*role.Role{}}
	for _, seeded := range seed {
		store.byID[seeded.ID] = seeded
	}
	return store
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*role.Role, error) {
	found, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFound("Role")
	}
	return found, nil
}

func (store *memoryStore) FindByName(_ context.Context, name string) (*role.Role, error) {
	for _, candidate := range store.byID {
		if strings.EqualFold(candidate.Name, name) {
			return candidate, nil
		}
	}
	return nil, apperr.NotFound("Role")
}

func (store *memoryStore) ListAll(_ context.Context) ([]role.Role, error) {
	roles := make([]role.Role, 0, len(store.byID))
	for _, candidate := range store.byID {
		roles = append(roles, *candidate)
	}
	return roles, nil
}

func (store *memoryStore) Create(_ context.Context, created *role.Role) error {
	store.byID[created.ID] = created
	return nil
}

/*
TestService_Create checks name normalization and case-insensitive uniqueness.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the name", func(t *testing.T) {
		service := role.NewService(newMemoryStore())

		created, err := service.Create(ctx, role.CreateInput{
			Name:        "  Event_Organizer ",
			Description: "Runs meetups",
		})

		require.NoError(t, err)
		assert.Equal(t, "event_organizer", created.Name)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("duplicate name conflicts regardless of case", func(t *testing.T) {
		service := role.NewService(newMemoryStore(
			&role.Role{ID: "role-1", Name: "mentor"},
		))

		_, err := service.Create(ctx, role.CreateInput{Name: "MENTOR"})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 409, appError.HTTPStatus)
	})
}

/*
TestService_IDByName checks the empty-without-error contract for unknown
names that user management relies on.
*/
func TestService_IDByName(t *testing.T) {
	ctx := context.Background()
	service := role.NewService(newMemoryStore(
		&role.Role{ID: "role-1", Name: "developer"},
	))

	id, err := service.IDByName(ctx, "developer")
	require.NoError(t, err)
	assert.Equal(t, "role-1", id)

	id, err = service.IDByName(ctx, "wizard")
	require.NoError(t, err)
	assert.Empty(t, id)
}
