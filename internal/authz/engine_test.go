// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package authz_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhive/devhive/internal/authz"
	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/platform/sec"
	"github.com/devhive/devhive/internal/role"
	"github.com/devhive/devhive/internal/user"
)

// fakeUserStore serves principals from a map, or fails with a fixed error.
type fakeUserStore struct {
	users map[string]*user.User
	err   error
}

func (store *fakeUserStore) FindByID(_ context.Context, id string) (*user.User, error) {
	if store.err != nil {
		return nil, store.err
	}
	found, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return found, nil
}

// fakeRoleStore serves roles from a map, or fails with a fixed error.
type fakeRoleStore struct {
	roles map[string]*role.Role
	err   error
}

func (store *fakeRoleStore) FindByID(_ context.Context, id string) (*role.Role, error) {
	if store.err != nil {
		return nil, store.err
	}
	found, ok := store.roles[id]
	if !ok {
		return nil, apperr.NotFound("Role")
	}
	return found, nil
}

// testTokens is the token service shared by engine tests.
var testTokens = sec.NewTokenService(sec.TokenOptions{
	AccessSecret:  "engine-test-secret",
	AccessExpiry:  time.Hour,
	RefreshSecret: "engine-test-refresh",
	RefreshExpiry: 24 * time.Hour,
	Issuer:        "devhive.test",
})

// fixture wires an engine around in-memory stores pre-seeded with one role
// per catalog entry and a user per interesting role shape.
type fixture struct {
	engine *authz.Engine
	users  *fakeUserStore
	roles  *fakeRoleStore
}

func newFixture() *fixture {
	roles := &fakeRoleStore{roles: map[string]*role.Role{
		"role-dev":    {ID: "role-dev", Name: "developer"},
		"role-mentor": {ID: "role-mentor", Name: "mentor"},
		"role-mod":    {ID: "role-mod", Name: "moderator"},
		"role-admin":  {ID: "role-admin", Name: "admin"},
		"role-super":  {ID: "role-super", Name: "super_admin"},
	}}

	users := &fakeUserStore{users: map[string]*user.User{
		"ada":   seedUser("ada", "role-dev"),
		"grace": seedUser("grace", "role-mentor"),
		"linus": seedUser("linus", "role-admin"),
		"joan":  seedUser("joan", ""),          // No role assigned.
		"alan":  seedUser("alan", "role-gone"), // Role row deleted.
	}}

	return &fixture{
		engine: authz.NewEngine(testTokens, users, roles, authz.NewCatalog()),
		users:  users,
		roles:  roles,
	}
}

func seedUser(id, roleID string) *user.User {
	seeded := &user.User{
		ID:       id,
		FullName: id,
		Email:    id + "@devhive.dev",
	}
	if roleID != "" {
		seeded.RoleID = &roleID
	}
	return seeded
}

// bearerFor issues a valid access token header for the given user ID.
func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := testTokens.IssueAccessToken(userID, userID+"@devhive.dev", "")
	require.NoError(t, err)
	return "Bearer " + token
}

/*
TestEngine_Authenticate_Success checks the happy path: a valid bearer token
resolves to the stored account, not just the token claims.
*/
func TestEngine_Authenticate_Success(t *testing.T) {
	f := newFixture()

	principal, verdict, err := f.engine.Authenticate(context.Background(), bearerFor(t, "ada"))

	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
	require.NotNil(t, principal)
	assert.Equal(t, "ada", principal.ID)
	assert.Equal(t, "ada@devhive.dev", principal.Email)
}

/*
TestEngine_Authenticate_CredentialFailures checks the denial taxonomy for
every broken-credential shape, and that each maps to 401.
*/
func TestEngine_Authenticate_CredentialFailures(t *testing.T) {
	f := newFixture()

	expiredTokens := sec.NewTokenService(sec.TokenOptions{
		AccessSecret:  "engine-test-secret",
		AccessExpiry:  -time.Hour,
		RefreshSecret: "engine-test-refresh",
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "devhive.test",
	})
	expiredToken, err := expiredTokens.IssueAccessToken("ada", "ada@devhive.dev", "")
	require.NoError(t, err)

	foreignTokens := sec.NewTokenService(sec.TokenOptions{
		AccessSecret:  "some-other-secret",
		AccessExpiry:  time.Hour,
		RefreshSecret: "engine-test-refresh",
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "devhive.test",
	})
	foreignToken, err := foreignTokens.IssueAccessToken("ada", "ada@devhive.dev", "")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantReason authz.Reason
	}{
		{"missing header", "", authz.ReasonNoToken},
		{"blank header", "   ", authz.ReasonNoToken},
		{"wrong scheme", "Basic dXNlcjpwYXNz", authz.ReasonInvalidToken},
		{"scheme only", "Bearer ", authz.ReasonInvalidToken},
		{"garbage token", "Bearer not.a.jwt", authz.ReasonInvalidToken},
		{"wrong secret", "Bearer " + foreignToken, authz.ReasonInvalidToken},
		{"expired token", "Bearer " + expiredToken, authz.ReasonExpired},
		{"deleted account", bearerFor(t, "nobody"), authz.ReasonPrincipalNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			principal, verdict, err := f.engine.Authenticate(context.Background(), test.header)

			require.NoError(t, err)
			assert.Nil(t, principal)
			assert.False(t, verdict.Allowed)
			assert.Equal(t, test.wantReason, verdict.Reason)
			assert.Equal(t, http.StatusUnauthorized, verdict.Reason.HTTPStatus())
		})
	}
}

/*
TestEngine_Authenticate_StoreFailure checks that a failing principal store
surfaces as an error, never as a deny verdict.
*/
func TestEngine_Authenticate_StoreFailure(t *testing.T) {
	f := newFixture()
	f.users.err = errors.New("connection refused")

	principal, verdict, err := f.engine.Authenticate(context.Background(), bearerFor(t, "ada"))

	require.Error(t, err)
	assert.Nil(t, principal)
	assert.False(t, verdict.Allowed)
	assert.Empty(t, verdict.Reason)
}

/*
TestEngine_Authenticate_FreshPrincipal checks that the account record wins
over token claims: deleting the account invalidates an otherwise valid token
on the next request.
*/
func TestEngine_Authenticate_FreshPrincipal(t *testing.T) {
	f := newFixture()
	header := bearerFor(t, "ada")

	_, verdict, err := f.engine.Authenticate(context.Background(), header)
	require.NoError(t, err)
	require.True(t, verdict.Allowed)

	delete(f.users.users, "ada")

	_, verdict, err = f.engine.Authenticate(context.Background(), header)
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, authz.ReasonPrincipalNotFound, verdict.Reason)
}

/*
TestEngine_OptionalAuthenticate checks the anonymous degradation: broken
credentials yield an allowing verdict with a nil principal, while
infrastructure failures still propagate.
*/
func TestEngine_OptionalAuthenticate(t *testing.T) {
	f := newFixture()

	t.Run("valid token resolves", func(t *testing.T) {
		principal, verdict, err := f.engine.OptionalAuthenticate(context.Background(), bearerFor(t, "grace"))
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
		require.NotNil(t, principal)
		assert.Equal(t, "grace", principal.ID)
	})

	t.Run("broken credentials degrade to anonymous", func(t *testing.T) {
		for _, header := range []string{"", "Bearer not.a.jwt", bearerFor(t, "nobody")} {
			principal, verdict, err := f.engine.OptionalAuthenticate(context.Background(), header)
			require.NoError(t, err)
			assert.True(t, verdict.Allowed)
			assert.Nil(t, principal)
		}
	})

	t.Run("store failure still errors", func(t *testing.T) {
		f.users.err = errors.New("connection refused")
		defer func() { f.users.err = nil }()

		_, _, err := f.engine.OptionalAuthenticate(context.Background(), bearerFor(t, "grace"))
		require.Error(t, err)
	})
}

/*
TestEngine_RequireRole checks allow-list matching, case folding, and the
missing/deleted role denials.
*/
func TestEngine_RequireRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("matching role allows", func(t *testing.T) {
		verdict, err := f.engine.RequireRole(ctx, f.users.users["grace"], "mentor", "admin")
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("match folds case", func(t *testing.T) {
		verdict, err := f.engine.RequireRole(ctx, f.users.users["grace"], "Mentor")
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("role outside the set denies with detail", func(t *testing.T) {
		verdict, err := f.engine.RequireRole(ctx, f.users.users["ada"], "Mentor", "admin")
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Equal(t, authz.ReasonInsufficientRole, verdict.Reason)
		assert.Equal(t, http.StatusForbidden, verdict.Reason.HTTPStatus())
		assert.Equal(t, []string{"mentor", "admin"}, verdict.Detail.RequiredRoles)
		assert.Equal(t, "developer", verdict.Detail.CurrentRole)
	})

	t.Run("no role assigned", func(t *testing.T) {
		verdict, err := f.engine.RequireRole(ctx, f.users.users["joan"], "developer")
		require.NoError(t, err)
		assert.Equal(t, authz.ReasonNoRole, verdict.Reason)
	})

	t.Run("assigned role was deleted", func(t *testing.T) {
		verdict, err := f.engine.RequireRole(ctx, f.users.users["alan"], "developer")
		require.NoError(t, err)
		assert.Equal(t, authz.ReasonRoleNotFound, verdict.Reason)
	})

	t.Run("role store failure errors", func(t *testing.T) {
		f.roles.err = errors.New("connection refused")
		defer func() { f.roles.err = nil }()

		_, err := f.engine.RequireRole(ctx, f.users.users["ada"], "developer")
		require.Error(t, err)
	})
}

/*
TestEngine_RequireMinimumLevel checks hierarchy comparisons, the equality
boundary, and the requirement-versus-actual denial detail.
*/
func TestEngine_RequireMinimumLevel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    string
		minimum   int
		wantAllow bool
	}{
		{"admin clears level 2", "linus", 2, true},
		{"mentor meets level 2 exactly", "grace", 2, true},
		{"developer fails level 2", "ada", 2, false},
		{"mentor fails level 3", "grace", 3, false},
		{"developer meets level 1", "ada", 1, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verdict, err := f.engine.RequireMinimumLevel(ctx, f.users.users[test.userID], test.minimum)
			require.NoError(t, err)
			assert.Equal(t, test.wantAllow, verdict.Allowed)
		})
	}

	t.Run("denial carries both levels", func(t *testing.T) {
		verdict, err := f.engine.RequireMinimumLevel(ctx, f.users.users["ada"], 2)
		require.NoError(t, err)
		assert.Equal(t, authz.ReasonInsufficientLevel, verdict.Reason)
		assert.Equal(t, 2, verdict.Detail.RequiredLevel)
		assert.Equal(t, 1, verdict.Detail.CurrentLevel)
		assert.Equal(t, "developer", verdict.Detail.CurrentRole)
	})

	t.Run("role unknown to the hierarchy ranks at zero", func(t *testing.T) {
		f.roles.roles["role-custom"] = &role.Role{ID: "role-custom", Name: "consultant"}
		defer delete(f.roles.roles, "role-custom")

		verdict, err := f.engine.RequireMinimumLevel(ctx, seedUser("zoe", "role-custom"), 1)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Equal(t, 0, verdict.Detail.CurrentLevel)
	})
}

/*
TestEngine_RequireCapability checks capability grants and that peer roles at
the same level do not inherit each other's capabilities.
*/
func TestEngine_RequireCapability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("mentor may mentor", func(t *testing.T) {
		verdict, err := f.engine.RequireCapability(ctx, f.users.users["grace"], authz.CapabilityMentor)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("admin holds both capabilities", func(t *testing.T) {
		for _, capability := range []authz.Capability{authz.CapabilityMentor, authz.CapabilityAdmin} {
			verdict, err := f.engine.RequireCapability(ctx, f.users.users["linus"], capability)
			require.NoError(t, err)
			assert.True(t, verdict.Allowed)
		}
	})

	t.Run("mentor does not administrate", func(t *testing.T) {
		verdict, err := f.engine.RequireCapability(ctx, f.users.users["grace"], authz.CapabilityAdmin)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Equal(t, authz.ReasonInsufficientRole, verdict.Reason)
		assert.Equal(t, authz.CapabilityAdmin, verdict.Detail.RequiredCapability)
		assert.Equal(t, "mentor", verdict.Detail.CurrentRole)
	})

	t.Run("developer denied with detail", func(t *testing.T) {
		verdict, err := f.engine.RequireCapability(ctx, f.users.users["ada"], authz.CapabilityMentor)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Equal(t, "developer", verdict.Detail.CurrentRole)
	})
}

/*
TestEngine_RequireOwnershipOrAdmin checks the ownership fast path, the admin
override, and that ownership is decided before any role lookup.
*/
func TestEngine_RequireOwnershipOrAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("owner allowed without any role", func(t *testing.T) {
		verdict, err := f.engine.RequireOwnershipOrAdmin(ctx, f.users.users["joan"], "joan")
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("ownership decided before role lookup", func(t *testing.T) {
		f.roles.err = errors.New("connection refused")
		defer func() { f.roles.err = nil }()

		verdict, err := f.engine.RequireOwnershipOrAdmin(ctx, f.users.users["ada"], "ada")
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("admin may touch another account", func(t *testing.T) {
		verdict, err := f.engine.RequireOwnershipOrAdmin(ctx, f.users.users["linus"], "ada")
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("non-owner non-admin denied", func(t *testing.T) {
		verdict, err := f.engine.RequireOwnershipOrAdmin(ctx, f.users.users["grace"], "ada")
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Equal(t, authz.ReasonNotOwnerNotAdmin, verdict.Reason)
		assert.Equal(t, authz.CapabilityAdmin, verdict.Detail.RequiredCapability)
		assert.Equal(t, "mentor", verdict.Detail.CurrentRole)
	})

	t.Run("non-owner without role denied", func(t *testing.T) {
		verdict, err := f.engine.RequireOwnershipOrAdmin(ctx, f.users.users["joan"], "ada")
		require.NoError(t, err)
		assert.Equal(t, authz.ReasonNotOwnerNotAdmin, verdict.Reason)
	})

	t.Run("non-owner with deleted role denied distinctly", func(t *testing.T) {
		verdict, err := f.engine.RequireOwnershipOrAdmin(ctx, f.users.users["alan"], "ada")
		require.NoError(t, err)
		assert.Equal(t, authz.ReasonRoleNotFound, verdict.Reason)
	})
}

/*
TestEngine_Authorize checks the policy dispatch over all four constructors and
the zero-policy failure.
*/
func TestEngine_Authorize(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    string
		policy    authz.Policy
		wantAllow bool
	}{
		{"role-in allows", "grace", authz.RoleIn("mentor", "admin"), true},
		{"role-in denies", "ada", authz.RoleIn("mentor"), false},
		{"min-level allows", "linus", authz.MinLevel(3), true},
		{"min-level denies", "grace", authz.MinLevel(3), false},
		{"capability allows", "grace", authz.WithCapability(authz.CapabilityMentor), true},
		{"capability denies", "ada", authz.WithCapability(authz.CapabilityAdmin), false},
		{"owned-by allows owner", "ada", authz.OwnedBy("ada"), true},
		{"owned-by allows admin", "linus", authz.OwnedBy("ada"), true},
		{"owned-by denies stranger", "grace", authz.OwnedBy("ada"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verdict, err := f.engine.Authorize(ctx, f.users.users[test.userID], test.policy)
			require.NoError(t, err)
			assert.Equal(t, test.wantAllow, verdict.Allowed)
		})
	}

	t.Run("zero policy errors", func(t *testing.T) {
		_, err := f.engine.Authorize(ctx, f.users.users["ada"], authz.Policy{})
		require.Error(t, err)
	})
}

/*
TestReason_HTTPStatus checks the full reason-to-status table plus the 403
fallback for unknown reasons.
*/
func TestReason_HTTPStatus(t *testing.T) {
	tests := []struct {
		reason authz.Reason
		want   int
	}{
		{authz.ReasonNoToken, http.StatusUnauthorized},
		{authz.ReasonInvalidToken, http.StatusUnauthorized},
		{authz.ReasonExpired, http.StatusUnauthorized},
		{authz.ReasonPrincipalNotFound, http.StatusUnauthorized},
		{authz.ReasonNoRole, http.StatusForbidden},
		{authz.ReasonRoleNotFound, http.StatusForbidden},
		{authz.ReasonInsufficientRole, http.StatusForbidden},
		{authz.ReasonInsufficientLevel, http.StatusForbidden},
		{authz.ReasonNotOwnerNotAdmin, http.StatusForbidden},
		{authz.Reason("SOMETHING_NEW"), http.StatusForbidden},
	}

	for _, test := range tests {
		t.Run(string(test.reason), func(t *testing.T) {
			assert.Equal(t, test.want, test.reason.HTTPStatus())
		})
	}
}
