// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package authz

import "net/http"

// Reason is the machine-readable explanation attached to a denying [Verdict].
type Reason string

const (
	// ReasonNoToken: the request carried no bearer credential at all.
	ReasonNoToken Reason = "NO_TOKEN"
	// ReasonInvalidToken: the credential was malformed or its signature failed.
	ReasonInvalidToken Reason = "INVALID_TOKEN"
	// ReasonExpired: the credential's lifetime has passed.
	ReasonExpired Reason = "EXPIRED"
	// ReasonPrincipalNotFound: the credential names an account that no longer exists.
	ReasonPrincipalNotFound Reason = "PRINCIPAL_NOT_FOUND"
	// ReasonNoRole: the account has no role assigned.
	ReasonNoRole Reason = "NO_ROLE"
	// ReasonRoleNotFound: the account references a role that was deleted.
	ReasonRoleNotFound Reason = "ROLE_NOT_FOUND"
	// ReasonInsufficientRole: the account's role is outside the allowed set.
	ReasonInsufficientRole Reason = "INSUFFICIENT_ROLE"
	// ReasonInsufficientLevel: the account's role level is below the requirement.
	ReasonInsufficientLevel Reason = "INSUFFICIENT_LEVEL"
	// ReasonNotOwnerNotAdmin: the account neither owns the resource nor administers it.
	ReasonNotOwnerNotAdmin Reason = "NOT_OWNER_NOT_ADMIN"
)

// reasonStatus maps each denial reason to its HTTP status. Credential problems
// are 401 (the caller should re-authenticate); permission problems are 403
// (re-authenticating would not help).
var reasonStatus = map[Reason]int{
	ReasonNoToken:           http.StatusUnauthorized,
	ReasonInvalidToken:      http.StatusUnauthorized,
	ReasonExpired:           http.StatusUnauthorized,
	ReasonPrincipalNotFound: http.StatusUnauthorized,
	ReasonNoRole:            http.StatusForbidden,
	ReasonRoleNotFound:      http.StatusForbidden,
	ReasonInsufficientRole:  http.StatusForbidden,
	ReasonInsufficientLevel: http.StatusForbidden,
	ReasonNotOwnerNotAdmin:  http.StatusForbidden,
}

// HTTPStatus returns the HTTP status code a transport adapter should emit for
// this denial reason. Unknown reasons map to 403, never to success.
func (reason Reason) HTTPStatus() int {
	if status, ok := reasonStatus[reason]; ok {
		return status
	}
	return http.StatusForbidden
}

// Detail carries the diagnostic payload of a denial: what the policy required
// versus what the principal had. It names roles and levels only — internal
// identifiers never leave the engine.
type Detail struct {
	RequiredRoles      []string   `json:"required_roles,omitempty"`
	RequiredLevel      int        `json:"required_level,omitempty"`
	RequiredCapability Capability `json:"required_capability,omitempty"`
	CurrentRole        string     `json:"current_role,omitempty"`
	CurrentLevel       int        `json:"current_level,omitempty"`
}

// IsZero reports whether the detail carries no diagnostics at all.
func (detail Detail) IsZero() bool {
	return len(detail.RequiredRoles) == 0 &&
		detail.RequiredLevel == 0 &&
		detail.RequiredCapability == "" &&
		detail.CurrentRole == "" &&
		detail.CurrentLevel == 0
}

// Verdict is the outcome of an authentication or authorization check.
//
// A zero Verdict is NOT a valid allow; use [Allow] and [Deny].
type Verdict struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Reason explains a denial; empty when Allowed.
	Reason Reason
	// Detail holds the requirement-versus-actual diagnostics for a denial.
	Detail Detail
}

// Allow returns the permitting verdict.
func Allow() Verdict {
	return Verdict{Allowed: true}
}

// Deny returns a denying verdict with the given reason and optional detail.
func Deny(reason Reason, detail ...Detail) Verdict {
	verdict := Verdict{Allowed: false, Reason: reason}
	if len(detail) > 0 {
		verdict.Detail = detail[0]
	}
	return verdict
}
