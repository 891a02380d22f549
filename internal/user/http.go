// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devhive/devhive/internal/platform/respond"
	"github.com/devhive/devhive/internal/platform/validate"
	"github.com/devhive/devhive/pkg/pagination"
)

// Handler implements member-management HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Guard is a chi-compatible middleware constructor.
type Guard = func(http.Handler) http.Handler

// RouteGuards bundles the authorization middleware applied per endpoint.
//
// The handler package stays transport-only: it never decides who may call an
// endpoint, it only mounts the guards the composition root hands it.
type RouteGuards struct {
	// Community applies to the member listing (authenticated, level 2+).
	Community []Guard
	// SelfOrAdmin applies to single-account reads and profile updates.
	SelfOrAdmin []Guard
	// Admin applies to account creation, deletion, and role changes.
	Admin []Guard
}

// Routes returns a [chi.Router] configured with user endpoints.
func (handler *Handler) Routes(guards RouteGuards) chi.Router {
	router := chi.NewRouter()

	router.With(guards.Community...).Get("/", handler.list)
	router.With(guards.Admin...).Post("/", handler.create)

	router.Route("/{userID}", func(router chi.Router) {
		router.With(guards.SelfOrAdmin...).Get("/", handler.getByID)
		router.With(guards.SelfOrAdmin...).Put("/", handler.update)
		router.With(guards.Admin...).Delete("/", handler.delete)
		router.With(guards.Admin...).Put("/role", handler.updateRole)
	})

	return router
}

/*
GET /api/v1/users.

Description: Lists member accounts, newest first.

Query Params:
  - page: Page number (default 1)
  - limit: Items per page (default 20, max 100)

Response:
  - 200: []User + pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	users, meta, err := handler.userService.List(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

// createUserRequest represents the JSON payload for admin account creation.
type createUserRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	RoleType        string `json:"role_type"`
	ExperienceLevel string `json:"experience_level"`
}

/*
POST /api/v1/users.

Description: Creates a member account with an explicit role (administrators only).

Response:
  - 201: User: The created account
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input createUserRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	v := &validate.Validator{}
	v.Required("full_name", input.FullName).
		MaxLen("full_name", input.FullName, 100).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		MaxLen("password", input.Password, 72) // Bcrypt input limit.
	if input.ExperienceLevel != "" {
		v.OneOf("experience_level", input.ExperienceLevel, ExperienceLevels...)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	created, err := handler.userService.Create(request.Context(), CreateInput{
		FullName:        input.FullName,
		Email:           input.Email,
		Password:        input.Password,
		RoleName:        input.RoleType,
		ExperienceLevel: input.ExperienceLevel,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, created)
}

/*
GET /api/v1/users/{userID}.

Description: Fetches a single member account (owner or administrator).

Response:
  - 200: User
  - 404: Unknown account
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "userID")

	v := &validate.Validator{}
	if err := v.UUID("userID", userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.userService.GetByID(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// updateUserRequest represents the JSON payload for partial profile updates.
type updateUserRequest struct {
	FullName        *string `json:"full_name"`
	Email           *string `json:"email"`
	ExperienceLevel *string `json:"experience_level"`
}

/*
PUT /api/v1/users/{userID}.

Description: Applies partial profile changes (owner or administrator).

Response:
  - 200: User: The updated account
  - 400: Validation failure
  - 404: Unknown account
  - 409: Email already registered
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "userID")

	var input updateUserRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.UUID("userID", userID)
	if input.FullName != nil {
		v.Required("full_name", *input.FullName).
			MaxLen("full_name", *input.FullName, 100)
	}
	if input.Email != nil {
		v.Email("email", *input.Email)
	}
	if input.ExperienceLevel != nil && *input.ExperienceLevel != "" {
		v.OneOf("experience_level", *input.ExperienceLevel, ExperienceLevels...)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.userService.Update(request.Context(), userID, UpdateInput{
		FullName:        input.FullName,
		Email:           input.Email,
		ExperienceLevel: input.ExperienceLevel,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/users/{userID}.

Description: Permanently removes a member account (administrators only).

Response:
  - 204: Account removed
  - 404: Unknown account
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "userID")

	v := &validate.Validator{}
	if err := v.UUID("userID", userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.Delete(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// updateRoleRequest represents the JSON payload for role reassignment.
type updateRoleRequest struct {
	RoleType string `json:"role_type"`
}

/*
PUT /api/v1/users/{userID}/role.

Description: Reassigns a member to a different permission group (administrators only).

Response:
  - 200: User: The account with its new role
  - 400: Unknown role name
  - 404: Unknown account
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "userID")

	var input updateRoleRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if err := v.
		UUID("userID", userID).
		Required("role_type", input.RoleType).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.userService.UpdateRole(request.Context(), userID, input.RoleType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
