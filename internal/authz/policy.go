// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package authz

import (
	"context"
	"fmt"

	"github.com/devhive/devhive/internal/user"
)

// policyKind selects which check a [Policy] performs.
type policyKind int

const (
	policyRoleIn policyKind = iota + 1
	policyMinLevel
	policyCapability
	policyOwnedBy
)

// Policy is a declarative authorization requirement evaluated by
// [Engine.Authorize]. Build one with [RoleIn], [MinLevel], [WithCapability],
// or [OwnedBy]; a zero Policy is invalid and always errors.
type Policy struct {
	kind       policyKind
	roles      []string
	level      int
	capability Capability
	ownerID    string
}

// RoleIn requires the principal's role to be one of the given names.
func RoleIn(roles ...string) Policy {
	return Policy{kind: policyRoleIn, roles: roles}
}

// MinLevel requires the principal's role level to be at least the given level.
func MinLevel(level int) Policy {
	return Policy{kind: policyMinLevel, level: level}
}

// WithCapability requires the principal's role to carry the capability.
func WithCapability(capability Capability) Policy {
	return Policy{kind: policyCapability, capability: capability}
}

// OwnedBy requires the principal to own the resource or hold the admin
// capability.
func OwnedBy(ownerID string) Policy {
	return Policy{kind: policyOwnedBy, ownerID: ownerID}
}

// Authorize evaluates a single policy against an authenticated principal.
func (engine *Engine) Authorize(ctx context.Context, principal *user.User, policy Policy) (Verdict, error) {
	switch policy.kind {
	case policyRoleIn:
		return engine.RequireRole(ctx, principal, policy.roles...)
	case policyMinLevel:
		return engine.RequireMinimumLevel(ctx, principal, policy.level)
	case policyCapability:
		return engine.RequireCapability(ctx, principal, policy.capability)
	case policyOwnedBy:
		return engine.RequireOwnershipOrAdmin(ctx, principal, policy.ownerID)
	default:
		return Verdict{}, fmt.Errorf("authz_unknown_policy_kind: %d", policy.kind)
	}
}
