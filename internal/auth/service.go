// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

// Package auth implements the authentication use cases: registration, login,
// token refresh, and the password-reset flow.
//
// # Architecture
//
// The service orchestrates the user domain and the token layer through
// interfaces. It is technology-agnostic: it knows nothing about HTTP, SQL,
// or Redis.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devhive/devhive/internal/authz"
	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/platform/ctxutil"
	"github.com/devhive/devhive/internal/platform/sec"
	"github.com/devhive/devhive/internal/user"
)

// resetTokenTTL limits how long a password-reset token stays redeemable.
const resetTokenTTL = 15 * time.Minute

// resetTokenBytes is the entropy of a reset token before hex encoding.
const resetTokenBytes = 32

// UserDirectory is the slice of the user domain the auth flows need.
// Satisfied by [user.Service].
type UserDirectory interface {
	Create(ctx context.Context, input user.CreateInput) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	UpdatePassword(ctx context.Context, id, newPassword string) error
}

// TokenIssuer signs and verifies the platform's bearer credentials.
// Satisfied by [sec.TokenService].
type TokenIssuer interface {
	IssueAccessToken(principalID, email, roleID string) (string, error)
	IssueRefreshToken(principalID, email string) (string, error)
	VerifyRefreshToken(tokenString string) (*sec.AccessClaims, error)
}

// ResetTokenStore persists password-reset tokens (hashed) with a TTL.
type ResetTokenStore interface {
	// Save stores tokenHash→userID for the given lifetime.
	Save(ctx context.Context, tokenHash, userID string, ttl time.Duration) error

	// Consume atomically fetches and deletes the user ID for a token hash.
	//
	// # Errors
	//   - [apperr.NotFound] if the token is unknown or already used.
	Consume(ctx context.Context, tokenHash string) (string, error)
}

// Service implements authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to registration, login,
// or reset logic must be reviewed by the security team.
type Service struct {
	users       UserDirectory
	tokens      TokenIssuer
	resetTokens ResetTokenStore
	catalog     *authz.Catalog
}

// NewService constructs a new auth [Service] with its dependencies.
func NewService(users UserDirectory, tokens TokenIssuer, resetTokens ResetTokenStore, catalog *authz.Catalog) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		resetTokens: resetTokens,
		catalog:     catalog,
	}
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ExperienceLevel string // Optional; drives the starting-role suggestion.
}

// Session represents a successfully established authentication session.
type Session struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         *user.User `json:"user"`
}

// Register enrolls a new member and signs them in.
//
// # Business Rules
//   - The starting role is suggested from the self-reported experience level:
//     senior-shaped levels start as mentor, everyone else as developer.
//   - Elevated roles (moderator and up) can never be obtained through
//     registration.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	// ── 1. Account Creation ───────────────────────────────────────────────

	created, err := service.users.Create(ctx, user.CreateInput{
		FullName:        input.FullName,
		Email:           input.Email,
		Password:        input.Password,
		RoleName:        service.catalog.SuggestedRole(input.ExperienceLevel),
		ExperienceLevel: input.ExperienceLevel,
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_registered",
		slog.String("user_id", created.ID),
		slog.String("email", created.Email),
	)

	// ── 2. Token Issuance ─────────────────────────────────────────────────

	return service.establishSession(created)
}

// Login validates an email/password pair and issues security tokens.
//
// Returns a generic [apperr.Unauthorized] on any mismatch to prevent
// account enumeration.
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	authenticated, err := service.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_logged_in",
		slog.String("user_id", authenticated.ID),
	)

	return service.establishSession(authenticated)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
//
// The account is re-read so a deleted account cannot keep refreshing.
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := service.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	current, err := service.users.GetByID(ctx, claims.PrincipalID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	return service.establishSession(current)
}

// RequestPasswordReset begins the reset flow for an account.
//
// # Enumeration Safety
//
// An unknown email yields the same nil result as a known one; only the
// returned token differs (empty). Callers must answer identically either way.
func (service *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	account, err := service.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "password_reset_unknown_email")
			return "", nil
		}
		return "", fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	plainToken, err := sec.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	// Only the hash is stored. A database or cache leak never exposes a
	// redeemable token.
	if err := service.resetTokens.Save(ctx, sec.HashToken(plainToken), account.ID, resetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_reset_store_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "password_reset_requested",
		slog.String("user_id", account.ID),
	)

	return plainToken, nil
}

// ResetPassword redeems a reset token and replaces the account password.
//
// Tokens are single-use: the store entry is consumed before the password
// changes, so a replayed token always fails.
func (service *Service) ResetPassword(ctx context.Context, plainToken, newPassword string) error {
	userID, err := service.resetTokens.Consume(ctx, sec.HashToken(plainToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthorized("Invalid or expired reset token")
		}
		return fmt.Errorf("auth_service_reset_consume_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, newPassword); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "password_reset_completed",
		slog.String("user_id", userID),
	)

	return nil
}

// establishSession issues the access/refresh token pair for an account.
func (service *Service) establishSession(account *user.User) (*Session, error) {
	roleID := ""
	if account.RoleID != nil {
		roleID = *account.RoleID
	}

	accessToken, err := service.tokens.IssueAccessToken(account.ID, account.Email, roleID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.IssueRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         account,
	}, nil
}
