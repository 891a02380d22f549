// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/devhive/devhive/internal/auth"
	"github.com/devhive/devhive/internal/authz"
	"github.com/devhive/devhive/internal/platform/config"
	"github.com/devhive/devhive/internal/platform/constants"
	"github.com/devhive/devhive/internal/platform/middleware"
	"github.com/devhive/devhive/internal/role"
	"github.com/devhive/devhive/internal/user"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (register, login, password reset).
	Auth *auth.Handler

	// User handles member-account management.
	User *user.Handler

	// Role handles permission-group management.
	Role *role.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups behind their authorization guards.
func NewServer(appContext context.Context, cfg *config.Config, log *slog.Logger, guard *middleware.Guard, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(appContext))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain route groups mounted under the versioned prefix. Authorization
	// is declared here, per route group, never inside domain handlers.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Mount("/roles", h.Role.Routes(
			guard.Authenticate,
			guard.RequireRole(authz.RoleSuperAdmin),
		))

		api.Mount("/users", h.User.Routes(user.RouteGuards{
			Community: []user.Guard{
				guard.Authenticate,
				guard.RequireMinimumLevel(authz.LevelMentor),
			},
			SelfOrAdmin: []user.Guard{
				guard.Authenticate,
				guard.RequireOwnershipOrAdmin("userID"),
			},
			Admin: []user.Guard{
				guard.Authenticate,
				guard.RequireCapability(authz.CapabilityAdmin),
			},
		}))
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	shutdownContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownContext)
}
