// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package role

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devhive/devhive/internal/platform/respond"
	"github.com/devhive/devhive/internal/platform/validate"
)

// Handler implements role-management HTTP endpoints.
type Handler struct {
	roleService *Service
}

// NewHandler constructs a new role [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{roleService: service}
}

// Routes returns a [chi.Router] configured with role endpoints.
//
// # Guards
//
// The caller mounts this router with the appropriate authorization
// middleware: listing is public (optionally authenticated), creation is
// restricted to super administrators.
func (handler *Handler) Routes(createGuards ...func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(createGuards...).Post("/", handler.create)

	return router
}

/*
GET /api/v1/roles.

Description: Lists every available permission group.

Response:
  - 200: []Role: All roles ordered by name
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	roles, err := handler.roleService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, roles)
}

// createRequest represents the JSON payload expected for role creation.
type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

/*
POST /api/v1/roles.

Description: Registers a new permission group (super administrators only).

Response:
  - 201: Role: The created role
  - 400: Validation failure
  - 409: Name already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input createRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	v := &validate.Validator{}
	if err := v.
		Required("name", input.Name).
		MinLen("name", input.Name, 2).
		MaxLen("name", input.Name, 50).
		MaxLen("description", input.Description, 500).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	created, err := handler.roleService.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, created)
}
