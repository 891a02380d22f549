// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devhive/devhive/internal/platform/respond"
	"github.com/devhive/devhive/internal/platform/validate"
	"github.com/devhive/devhive/internal/user"
)

// Handler implements authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication endpoints.
// All of them are public by design.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/password-reset/request", handler.requestPasswordReset)
	router.Post("/password-reset/confirm", handler.confirmPasswordReset)

	return router
}

// registerRequest represents the JSON payload for registration.
type registerRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ExperienceLevel string `json:"experience_level"`
}

/*
POST /api/v1/auth/register.

Description: Enrolls a new member and signs them in immediately.

Response:
  - 201: Session: Access/refresh tokens plus the created account
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
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
		v.OneOf("experience_level", input.ExperienceLevel, user.ExperienceLevels...)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		FullName:        input.FullName,
		Email:           input.Email,
		Password:        input.Password,
		ExperienceLevel: input.ExperienceLevel,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, session)
}

// loginRequest represents the JSON payload for an authentication attempt.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
POST /api/v1/auth/login.

Description: Validates credentials and issues a token pair.

Response:
  - 200: Session
  - 401: Invalid email or password (deliberately indistinguishable)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if err := v.
		Required("email", input.Email).
		Required("password", input.Password).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// refreshRequest represents the JSON payload for a token refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
POST /api/v1/auth/refresh.

Description: Exchanges a refresh token for a fresh token pair.

Response:
  - 200: Session
  - 401: Invalid or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if err := v.Required("refresh_token", input.RefreshToken).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// resetRequestPayload represents the JSON payload to begin a password reset.
type resetRequestPayload struct {
	Email string `json:"email"`
}

// resetRequestResponse acknowledges a reset request.
//
// TODO: deliver ResetToken over email once an outbound provider is wired;
// until then the token rides in the response body.
type resetRequestResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

/*
POST /api/v1/auth/password-reset/request.

Description: Begins the password-reset flow for an email address.

Response:
  - 200: Always the same acknowledgment, whether or not the email exists
*/
func (handler *Handler) requestPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input resetRequestPayload
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if err := v.
		Required("email", input.Email).
		Email("email", input.Email).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	resetToken, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, resetRequestResponse{
		Message:    "If the email is registered, a reset token has been issued",
		ResetToken: resetToken,
	})
}

// resetConfirmPayload represents the JSON payload to redeem a reset token.
type resetConfirmPayload struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

/*
POST /api/v1/auth/password-reset/confirm.

Description: Redeems a reset token and replaces the account password.

Response:
  - 204: Password replaced
  - 401: Invalid, expired, or already-used token
*/
func (handler *Handler) confirmPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input resetConfirmPayload
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if err := v.
		Required("token", input.Token).
		Required("new_password", input.NewPassword).
		MinLen("new_password", input.NewPassword, 8).
		MaxLen("new_password", input.NewPassword, 72).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
