// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devhive/devhive/internal/authz"
	"github.com/devhive/devhive/internal/platform/constants"
	"github.com/devhive/devhive/internal/platform/ctxkey"
	"github.com/devhive/devhive/internal/platform/ctxutil"
	"github.com/devhive/devhive/internal/platform/respond"
	"github.com/devhive/devhive/internal/user"
)

// Guard adapts the authorization engine to chi middleware.
//
// # Usage
//
// Mount [Guard.Authenticate] (or [Guard.OptionalAuthenticate]) first; the
// Require* middlewares read the principal it stored in the request context.
type Guard struct {
	engine *authz.Engine
}

// NewGuard constructs a [Guard] around an engine.
func NewGuard(engine *authz.Engine) *Guard {
	return &Guard{engine: engine}
}

// Authenticate resolves the bearer credential into a live principal and
// stores it in the request context. Requests without a usable credential are
// rejected with 401.
func (guard *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal, verdict, err := guard.engine.Authenticate(
			request.Context(),
			request.Header.Get(constants.HeaderAuthorization),
		)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if !verdict.Allowed {
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
				"authentication_denied",
				slog.String("reason", string(verdict.Reason)),
			)
			writeVerdict(writer, verdict)
			return
		}

		next.ServeHTTP(writer, request.WithContext(withPrincipal(request.Context(), principal)))
	})
}

// OptionalAuthenticate stores the principal when a usable credential is
// present and lets anonymous requests straight through.
func (guard *Guard) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal, _, err := guard.engine.OptionalAuthenticate(
			request.Context(),
			request.Header.Get(constants.HeaderAuthorization),
		)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if principal != nil {
			request = request.WithContext(withPrincipal(request.Context(), principal))
		}

		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks principals whose current role is outside the allowed set.
func (guard *Guard) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return guard.requirement(func(request *http.Request, principal *user.User) (authz.Verdict, error) {
		return guard.engine.RequireRole(request.Context(), principal, allowed...)
	})
}

// RequireMinimumLevel blocks principals below the given hierarchy level.
func (guard *Guard) RequireMinimumLevel(level int) func(http.Handler) http.Handler {
	return guard.requirement(func(request *http.Request, principal *user.User) (authz.Verdict, error) {
		return guard.engine.RequireMinimumLevel(request.Context(), principal, level)
	})
}

// RequireCapability blocks principals whose role lacks the capability.
func (guard *Guard) RequireCapability(capability authz.Capability) func(http.Handler) http.Handler {
	return guard.requirement(func(request *http.Request, principal *user.User) (authz.Verdict, error) {
		return guard.engine.RequireCapability(request.Context(), principal, capability)
	})
}

// RequireOwnershipOrAdmin blocks principals who neither own the resource nor
// administrate. The resource owner's ID is read from the named chi URL
// parameter.
func (guard *Guard) RequireOwnershipOrAdmin(urlParam string) func(http.Handler) http.Handler {
	return guard.requirement(func(request *http.Request, principal *user.User) (authz.Verdict, error) {
		return guard.engine.RequireOwnershipOrAdmin(request.Context(), principal, chi.URLParam(request, urlParam))
	})
}

// requirement builds a middleware that evaluates one engine check against the
// context principal.
func (guard *Guard) requirement(check func(*http.Request, *user.User) (authz.Verdict, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := PrincipalFrom(request.Context())
			if principal == nil {
				// Require* without a prior Authenticate is a wiring mistake,
				// but the client still gets a correct 401.
				writeVerdict(writer, authz.Deny(authz.ReasonNoToken))
				return
			}

			verdict, err := check(request, principal)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if !verdict.Allowed {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
					"authorization_denied",
					slog.String("reason", string(verdict.Reason)),
					slog.String("user_id", principal.ID),
				)
				writeVerdict(writer, verdict)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// PrincipalFrom retrieves the authenticated principal from the context, or
// nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *user.User {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(*user.User)
	if !ok {
		return nil
	}
	return principal
}

// withPrincipal stores the authenticated principal in the context.
func withPrincipal(ctx context.Context, principal *user.User) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// verdictMessages are the client-facing texts per denial reason.
var verdictMessages = map[authz.Reason]string{
	authz.ReasonNoToken:           "Authentication required",
	authz.ReasonInvalidToken:      "Invalid authentication token",
	authz.ReasonExpired:           "Authentication token has expired",
	authz.ReasonPrincipalNotFound: "Account no longer exists",
	authz.ReasonNoRole:            "No role assigned to this account",
	authz.ReasonRoleNotFound:      "Assigned role no longer exists",
	authz.ReasonInsufficientRole:  "Insufficient role for this action",
	authz.ReasonInsufficientLevel: "Insufficient role level for this action",
	authz.ReasonNotOwnerNotAdmin:  "Only the owner or an administrator may do this",
}

// denialPayload is the JSON body written for a denying verdict.
type denialPayload struct {
	Error  string        `json:"error"`
	Code   string        `json:"code"`
	Detail *authz.Detail `json:"detail,omitempty"`
}

// writeVerdict maps a denying verdict onto the wire: 401 for credential
// problems, 403 for permission problems, with the diagnostic detail attached
// when present.
func writeVerdict(writer http.ResponseWriter, verdict authz.Verdict) {
	message, ok := verdictMessages[verdict.Reason]
	if !ok {
		message = "Access denied"
	}

	payload := denialPayload{
		Error: message,
		Code:  string(verdict.Reason),
	}
	if !verdict.Detail.IsZero() {
		detail := verdict.Detail
		payload.Detail = &detail
	}

	respond.JSON(writer, verdict.Reason.HTTPStatus(), payload)
}
