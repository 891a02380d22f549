// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/platform/constants"
	"github.com/devhive/devhive/internal/platform/sec"
	"github.com/devhive/devhive/internal/role"
	"github.com/devhive/devhive/internal/user"
)

// TokenVerifier checks a raw bearer credential and returns its claims.
// Satisfied by [sec.TokenService].
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AccessClaims, error)
}

// PrincipalStore loads accounts by ID. Satisfied by [user.Store].
type PrincipalStore interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// RoleStore loads roles by ID. Satisfied by [role.Store].
type RoleStore interface {
	FindByID(ctx context.Context, id string) (*role.Role, error)
}

// Engine makes authentication and authorization decisions.
//
// # Freshness
//
// The engine re-reads the principal and its role from the stores on every
// check. A role change or account deletion takes effect on the very next
// request without waiting for token expiry. Token claims are treated as an
// identity hint only; the stored account is authoritative.
//
// # Error Discipline
//
// Every method separates the decision from infrastructure health: a non-nil
// error means a store failed and nothing can be concluded (callers answer
// 500, not 403). Denials always arrive as a [Verdict] with a nil error.
type Engine struct {
	tokens     TokenVerifier
	principals PrincipalStore
	roles      RoleStore
	catalog    *Catalog
}

// NewEngine constructs an [Engine] with its dependencies.
func NewEngine(tokens TokenVerifier, principals PrincipalStore, roles RoleStore, catalog *Catalog) *Engine {
	return &Engine{
		tokens:     tokens,
		principals: principals,
		roles:      roles,
		catalog:    catalog,
	}
}

// Catalog exposes the engine's role catalog for pure lookups.
func (engine *Engine) Catalog() *Catalog {
	return engine.catalog
}

// Authenticate resolves an Authorization header value into a live principal.
//
// # Decision Order
//
//  1. Missing header → NoToken.
//  2. Wrong scheme or empty credential → InvalidToken.
//  3. Expired credential → Expired, even when the signature check would also
//     have failed.
//  4. Malformed or badly signed credential → InvalidToken.
//  5. Credential valid but the account is gone → PrincipalNotFound.
func (engine *Engine) Authenticate(ctx context.Context, authorizationHeader string) (*user.User, Verdict, error) {
	// ── 1. Credential Extraction ──────────────────────────────────────────

	if strings.TrimSpace(authorizationHeader) == "" {
		return nil, Deny(ReasonNoToken), nil
	}

	scheme, rawToken, found := strings.Cut(authorizationHeader, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return nil, Deny(ReasonInvalidToken), nil
	}
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, Deny(ReasonInvalidToken), nil
	}

	// ── 2. Credential Verification ────────────────────────────────────────

	claims, err := engine.tokens.VerifyAccessToken(rawToken)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, Deny(ReasonExpired), nil
		}
		return nil, Deny(ReasonInvalidToken), nil
	}

	// ── 3. Principal Resolution ───────────────────────────────────────────

	principal, err := engine.principals.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, Deny(ReasonPrincipalNotFound), nil
		}
		return nil, Verdict{}, fmt.Errorf("authz_principal_lookup_failed: %w", err)
	}

	return principal, Allow(), nil
}

// OptionalAuthenticate resolves a principal when a usable credential is
// present and degrades to anonymous otherwise.
//
// Missing, invalid, and expired credentials — and credentials naming deleted
// accounts — all yield (nil, allow): the endpoint itself decides what
// anonymous callers may see. Store failures still propagate as errors.
func (engine *Engine) OptionalAuthenticate(ctx context.Context, authorizationHeader string) (*user.User, Verdict, error) {
	principal, verdict, err := engine.Authenticate(ctx, authorizationHeader)
	if err != nil {
		return nil, Verdict{}, err
	}
	if !verdict.Allowed {
		return nil, Allow(), nil
	}
	return principal, verdict, nil
}

// RequireRole allows the principal only when its current role name is in the
// allowed set (case-insensitive).
func (engine *Engine) RequireRole(ctx context.Context, principal *user.User, allowed ...string) (Verdict, error) {
	roleName, verdict, err := engine.currentRole(ctx, principal)
	if err != nil || !verdict.Allowed {
		return verdict, err
	}

	for _, candidate := range allowed {
		if strings.EqualFold(candidate, roleName) {
			return Allow(), nil
		}
	}

	return Deny(ReasonInsufficientRole, Detail{
		RequiredRoles: normalizeRoleNames(allowed),
		CurrentRole:   roleName,
	}), nil
}

// RequireMinimumLevel allows the principal only when its current role sits at
// or above the given hierarchy level. Roles the catalog does not know rank at
// level 0 and never pass.
func (engine *Engine) RequireMinimumLevel(ctx context.Context, principal *user.User, minimumLevel int) (Verdict, error) {
	roleName, verdict, err := engine.currentRole(ctx, principal)
	if err != nil || !verdict.Allowed {
		return verdict, err
	}

	currentLevel := engine.catalog.LevelOf(roleName)
	if currentLevel >= minimumLevel {
		return Allow(), nil
	}

	return Deny(ReasonInsufficientLevel, Detail{
		RequiredLevel: minimumLevel,
		CurrentRole:   roleName,
		CurrentLevel:  currentLevel,
	}), nil
}

// RequireCapability allows the principal only when its current role carries
// the named capability.
func (engine *Engine) RequireCapability(ctx context.Context, principal *user.User, capability Capability) (Verdict, error) {
	roleName, verdict, err := engine.currentRole(ctx, principal)
	if err != nil || !verdict.Allowed {
		return verdict, err
	}

	if engine.catalog.HasCapability(roleName, capability) {
		return Allow(), nil
	}

	return Deny(ReasonInsufficientRole, Detail{
		RequiredCapability: capability,
		CurrentRole:        roleName,
	}), nil
}

// RequireOwnershipOrAdmin allows the principal when it owns the resource or
// carries the admin capability.
//
// Ownership is checked first: a resource owner needs no role at all, so the
// common self-service path costs no role lookup.
func (engine *Engine) RequireOwnershipOrAdmin(ctx context.Context, principal *user.User, ownerID string) (Verdict, error) {
	if principal != nil && principal.ID == ownerID {
		return Allow(), nil
	}

	if principal == nil || principal.RoleID == nil {
		return Deny(ReasonNotOwnerNotAdmin, Detail{
			RequiredCapability: CapabilityAdmin,
		}), nil
	}

	currentRole, err := engine.roles.FindByID(ctx, *principal.RoleID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return Deny(ReasonRoleNotFound), nil
		}
		return Verdict{}, fmt.Errorf("authz_role_lookup_failed: %w", err)
	}

	if engine.catalog.HasAdminCapability(currentRole.Name) {
		return Allow(), nil
	}

	return Deny(ReasonNotOwnerNotAdmin, Detail{
		RequiredCapability: CapabilityAdmin,
		CurrentRole:        currentRole.Name,
	}), nil
}

// currentRole resolves the principal's role name with a fresh store read.
//
// Returns a denying verdict for a missing assignment (NoRole) or a deleted
// role (RoleNotFound); infrastructure failures come back as errors.
func (engine *Engine) currentRole(ctx context.Context, principal *user.User) (string, Verdict, error) {
	if principal == nil || principal.RoleID == nil {
		return "", Deny(ReasonNoRole), nil
	}

	currentRole, err := engine.roles.FindByID(ctx, *principal.RoleID)
	if err != nil {
		if apperr.IsNotFound(err) {
			// The role row was deleted after assignment. Distinct from NoRole
			// so operators can spot dangling references.
			return "", Deny(ReasonRoleNotFound), nil
		}
		return "", Verdict{}, fmt.Errorf("authz_role_lookup_failed: %w", err)
	}

	return currentRole.Name, Allow(), nil
}

// normalizeRoleNames lowercases a role allow-list for diagnostic output.
func normalizeRoleNames(names []string) []string {
	normalized := make([]string, len(names))
	for i, name := range names {
		normalized[i] = normalizeRoleName(name)
	}
	return normalized
}
