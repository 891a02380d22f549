// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

// Package authz implements the authorization decision core: a static role
// catalog, request authentication against bearer tokens, and policy checks
// (role allow-lists, hierarchy levels, capabilities, resource ownership).
//
// # Architecture
//
// The package is split into a pure [Catalog] (no I/O, answers questions about
// role names), an [Engine] (combines token verification with fresh principal
// and role lookups), and a [Verdict] type that carries the decision plus a
// machine-readable reason. HTTP adapters live in platform/middleware; this
// package never touches net/http.
package authz

import "strings"

// Role hierarchy levels. A higher level strictly contains the permissions the
// level checks grant to lower ones; peer roles share a level without implying
// each other.
const (
	LevelDeveloper      = 1
	LevelMentor         = 2
	LevelEventOrganizer = 2
	LevelContentCreator = 2
	LevelModerator      = 3
	LevelAdmin          = 4
	LevelSuperAdmin     = 5
)

// Canonical role names. Stored lowercase; all catalog lookups fold case.
const (
	RoleDeveloper      = "developer"
	RoleMentor         = "mentor"
	RoleEventOrganizer = "event_organizer"
	RoleContentCreator = "content_creator"
	RoleModerator      = "moderator"
	RoleAdmin          = "admin"
	RoleSuperAdmin     = "super_admin"
)

// Capability identifies a named cross-role permission grant.
type Capability string

const (
	// CapabilityMentor covers mentorship features (session hosting, reviews).
	CapabilityMentor Capability = "mentor"
	// CapabilityAdmin covers administrative features (member management).
	CapabilityAdmin Capability = "admin"
)

// Catalog is the immutable mapping from role names to hierarchy levels and
// capabilities. Construct once with [NewCatalog] and share freely; all methods
// are pure and safe for concurrent use.
//
// The capability sets are deliberately independent of the level table:
// event_organizer and mentor share level 2, but only mentor carries the
// mentor capability.
type Catalog struct {
	levels       map[string]int
	capabilities map[Capability]map[string]bool
}

// NewCatalog builds the platform's role catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		levels: map[string]int{
			RoleDeveloper:      LevelDeveloper,
			RoleMentor:         LevelMentor,
			RoleEventOrganizer: LevelEventOrganizer,
			RoleContentCreator: LevelContentCreator,
			RoleModerator:      LevelModerator,
			RoleAdmin:          LevelAdmin,
			RoleSuperAdmin:     LevelSuperAdmin,
		},
		capabilities: map[Capability]map[string]bool{
			CapabilityMentor: {
				RoleMentor:     true,
				RoleAdmin:      true,
				RoleSuperAdmin: true,
			},
			CapabilityAdmin: {
				RoleAdmin:      true,
				RoleSuperAdmin: true,
			},
		},
	}
}

// LevelOf returns the hierarchy level for a role name, or 0 for any name the
// catalog does not know. Unknown roles therefore never pass a minimum-level
// check (deny by default).
func (catalog *Catalog) LevelOf(roleName string) int {
	return catalog.levels[normalizeRoleName(roleName)]
}

// Knows reports whether the role name exists in the catalog.
func (catalog *Catalog) Knows(roleName string) bool {
	_, ok := catalog.levels[normalizeRoleName(roleName)]
	return ok
}

// HasCapability reports whether the role carries the given capability.
// Unknown roles and unknown capabilities both report false.
func (catalog *Catalog) HasCapability(roleName string, capability Capability) bool {
	return catalog.capabilities[capability][normalizeRoleName(roleName)]
}

// HasMentorCapability reports whether the role may use mentorship features.
func (catalog *Catalog) HasMentorCapability(roleName string) bool {
	return catalog.HasCapability(roleName, CapabilityMentor)
}

// HasAdminCapability reports whether the role may use administrative features.
func (catalog *Catalog) HasAdminCapability(roleName string) bool {
	return catalog.HasCapability(roleName, CapabilityAdmin)
}

// SuggestedRole maps a self-reported experience level to a starting role.
//
// Senior-shaped levels (senior, lead, manager, principal, architect) suggest
// mentor; everything else, including unrecognized input, suggests developer.
func (catalog *Catalog) SuggestedRole(experienceLevel string) string {
	switch strings.ToLower(strings.TrimSpace(experienceLevel)) {
	case "senior", "lead", "manager", "principal", "architect":
		return RoleMentor
	default:
		return RoleDeveloper
	}
}

// normalizeRoleName folds case and surrounding whitespace so catalog lookups
// match however the role name was stored or typed.
func normalizeRoleName(roleName string) string {
	return strings.ToLower(strings.TrimSpace(roleName))
}
