// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/platform/sec"
	"github.com/devhive/devhive/internal/user"
	"github.com/devhive/devhive/pkg/pagination"
	"github.com/devhive/devhive/pkg/pointer"
)

// memoryStore is an in-memory user.Store.
type memoryStore struct {
	byID map[string]*user.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{byID: map[string]*user.User{}}
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*user.User, error) {
	found, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *found
	return &clone, nil
}

func (store *memoryStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, candidate := range store.byID {
		if strings.EqualFold(candidate.Email, email) {
			clone := *candidate
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryStore) List(_ context.Context, page pagination.Params) ([]user.User, int, error) {
	users := make([]user.User, 0, len(store.byID))
	for _, candidate := range store.byID {
		users = append(users, *candidate)
	}
	return users, len(store.byID), nil
}

func (store *memoryStore) Create(_ context.Context, created *user.User) error {
	clone := *created
	store.byID[created.ID] = &clone
	return nil
}

func (store *memoryStore) Update(_ context.Context, updated *user.User) error {
	if _, ok := store.byID[updated.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *updated
	store.byID[updated.ID] = &clone
	return nil
}

func (store *memoryStore) UpdateRole(_ context.Context, userID string, roleID *string) error {
	existing, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	existing.RoleID = roleID
	return nil
}

func (store *memoryStore) UpdatePassword(_ context.Context, userID, newHash string) error {
	existing, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	existing.PasswordHash = newHash
	return nil
}

func (store *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := store.byID[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(store.byID, id)
	return nil
}

// staticRoles resolves a fixed name→ID table, empty string for unknown names.
type staticRoles map[string]string

func (roles staticRoles) IDByName(_ context.Context, name string) (string, error) {
	return roles[strings.ToLower(name)], nil
}

var knownRoles = staticRoles{
	"developer": "role-dev",
	"mentor":    "role-mentor",
	"admin":     "role-admin",
}

/*
TestService_Create checks role resolution: explicit roles are honored, blank
input falls back to developer, unknown names fail validation.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the developer role", func(t *testing.T) {
		service := user.NewService(newMemoryStore(), knownRoles)

		created, err := service.Create(ctx, user.CreateInput{
			FullName: "Ada Lovelace",
			Email:    "Ada@DevHive.dev",
			Password: "correct-horse",
		})

		require.NoError(t, err)
		require.NotNil(t, created.RoleID)
		assert.Equal(t, "role-dev", *created.RoleID)
		assert.Equal(t, "ada@devhive.dev", created.Email, "emails are normalized lowercase")
		assert.NotEmpty(t, created.ID)
	})

	t.Run("explicit role is honored case-insensitively", func(t *testing.T) {
		service := user.NewService(newMemoryStore(), knownRoles)

		created, err := service.Create(ctx, user.CreateInput{
			FullName: "Grace Hopper",
			Email:    "grace@devhive.dev",
			Password: "correct-horse",
			RoleName: "Mentor",
		})

		require.NoError(t, err)
		assert.Equal(t, "role-mentor", *created.RoleID)
	})

	t.Run("unknown explicit role is a validation failure", func(t *testing.T) {
		service := user.NewService(newMemoryStore(), knownRoles)

		_, err := service.Create(ctx, user.CreateInput{
			FullName: "Alan Turing",
			Email:    "alan@devhive.dev",
			Password: "correct-horse",
			RoleName: "wizard",
		})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		store := newMemoryStore()
		service := user.NewService(store, knownRoles)

		created, err := service.Create(ctx, user.CreateInput{
			FullName: "Joan Clarke",
			Email:    "joan@devhive.dev",
			Password: "correct-horse",
		})

		require.NoError(t, err)
		stored := store.byID[created.ID]
		assert.NotEqual(t, "correct-horse", stored.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("correct-horse", stored.PasswordHash))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		service := user.NewService(newMemoryStore(), knownRoles)

		_, err := service.Create(ctx, user.CreateInput{
			FullName: "Ada Lovelace", Email: "ada@devhive.dev", Password: "correct-horse",
		})
		require.NoError(t, err)

		_, err = service.Create(ctx, user.CreateInput{
			FullName: "Ada Again", Email: "ADA@devhive.dev", Password: "correct-horse",
		})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 409, appError.HTTPStatus)
	})
}

/*
TestService_Authenticate checks the generic-mismatch behavior that prevents
account enumeration.
*/
func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	service := user.NewService(newMemoryStore(), knownRoles)

	created, err := service.Create(ctx, user.CreateInput{
		FullName: "Ada Lovelace", Email: "ada@devhive.dev", Password: "correct-horse",
	})
	require.NoError(t, err)

	t.Run("valid credentials return the account", func(t *testing.T) {
		found, err := service.Authenticate(ctx, "ada@devhive.dev", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("wrong password and unknown email are identical", func(t *testing.T) {
		_, wrongPassErr := service.Authenticate(ctx, "ada@devhive.dev", "wrong")
		_, unknownErr := service.Authenticate(ctx, "nobody@devhive.dev", "correct-horse")

		var appError *apperr.AppError
		require.ErrorAs(t, wrongPassErr, &appError)
		wrongPassMessage := appError.Message
		require.ErrorAs(t, unknownErr, &appError)
		assert.Equal(t, wrongPassMessage, appError.Message)
	})
}

/*
TestService_Update checks partial profile updates and email-change conflicts.
*/
func TestService_Update(t *testing.T) {
	ctx := context.Background()
	service := user.NewService(newMemoryStore(), knownRoles)

	created, err := service.Create(ctx, user.CreateInput{
		FullName: "Ada Lovelace", Email: "ada@devhive.dev", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = service.Create(ctx, user.CreateInput{
		FullName: "Grace Hopper", Email: "grace@devhive.dev", Password: "correct-horse",
	})
	require.NoError(t, err)

	t.Run("only provided fields change", func(t *testing.T) {
		updated, err := service.Update(ctx, created.ID, user.UpdateInput{
			FullName: pointer.To("Augusta Ada King"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Augusta Ada King", updated.FullName)
		assert.Equal(t, "ada@devhive.dev", updated.Email)
	})

	t.Run("changing to a taken email conflicts", func(t *testing.T) {
		_, err := service.Update(ctx, created.ID, user.UpdateInput{
			Email: pointer.To("grace@devhive.dev"),
		})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 409, appError.HTTPStatus)
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		_, err := service.Update(ctx, "missing", user.UpdateInput{
			FullName: pointer.To("Nobody"),
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

/*
TestService_UpdateRole checks promotion by role name, including the unknown
name failure.
*/
func TestService_UpdateRole(t *testing.T) {
	ctx := context.Background()
	service := user.NewService(newMemoryStore(), knownRoles)

	created, err := service.Create(ctx, user.CreateInput{
		FullName: "Ada Lovelace", Email: "ada@devhive.dev", Password: "correct-horse",
	})
	require.NoError(t, err)

	t.Run("promotes to a known role", func(t *testing.T) {
		updated, err := service.UpdateRole(ctx, created.ID, "mentor")
		require.NoError(t, err)
		assert.Equal(t, "role-mentor", pointer.Val(updated.RoleID))
	})

	t.Run("unknown role name fails validation", func(t *testing.T) {
		_, err := service.UpdateRole(ctx, created.ID, "overlord")
		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})
}

/*
TestService_Delete checks removal and the not-found replay.
*/
func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	service := user.NewService(newMemoryStore(), knownRoles)

	created, err := service.Create(ctx, user.CreateInput{
		FullName: "Ada Lovelace", Email: "ada@devhive.dev", Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))
	assert.True(t, apperr.IsNotFound(service.Delete(ctx, created.ID)))
}
