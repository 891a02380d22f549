// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces (e.g. the authorization engine's
// TokenVerifier).
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure classes surfaced to callers.
//
// # Why sentinels?
//
// The authorization engine maps each class to a distinct deny reason
// (Malformed/SignatureInvalid → InvalidToken, Expired → Expired) using
// [errors.Is], instead of string-matching on library error messages.
var (
	// ErrTokenMalformed indicates the raw string is not a parseable JWT.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenSignatureInvalid indicates the token was signed with a
	// different secret than the configured one.
	ErrTokenSignatureInvalid = errors.New("sec: token signature is invalid")

	// ErrTokenExpired indicates the token's exp claim is in the past.
	// Expiry takes precedence over every other verification failure.
	ErrTokenExpired = errors.New("sec: token has expired")
)

// AccessClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the PrincipalID, Email, and RoleID directly inside the JWT,
// the token is self-contained: no server-side session record is needed to
// identify the caller. The role claim is advisory only — authorization always
// re-reads the live record, so role changes take effect on the next request.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	PrincipalID string `json:"uid"`
	Email       string `json:"eml"`
	RoleID      string `json:"rid,omitempty"`
}

// signingKeys holds one secret/TTL pair. Access and refresh tokens use
// independent pairs so refresh support never derives trust from the
// access-token secret.
type signingKeys struct {
	secret []byte
	ttl    time.Duration
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	access  signingKeys
	refresh signingKeys
	issuer  string
}

// TokenOptions configures a [TokenService].
type TokenOptions struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
	Issuer        string
}

// NewTokenService creates a new TokenService from resolved configuration.
func NewTokenService(options TokenOptions) *TokenService {
	return &TokenService{
		access:  signingKeys{secret: []byte(options.AccessSecret), ttl: options.AccessExpiry},
		refresh: signingKeys{secret: []byte(options.RefreshSecret), ttl: options.RefreshExpiry},
		issuer:  options.Issuer,
	}
}

// IssueAccessToken creates a new signed JWT access token for a principal.
//
// Claims are built with issuedAt=now and expiresAt=now+configured expiry.
// Signing is deterministic for a given claim set and secret.
func (service *TokenService) IssueAccessToken(principalID, email, roleID string) (string, error) {
	return service.issue(service.access, principalID, email, roleID)
}

// IssueRefreshToken creates a new signed JWT refresh token for a principal.
//
// The refresh flow itself is not exposed over HTTP yet; the dual secret/TTL
// pair is kept wired so adding it never touches access-token trust.
func (service *TokenService) IssueRefreshToken(principalID, email string) (string, error) {
	return service.issue(service.refresh, principalID, email, "")
}

func (service *TokenService) issue(keys signingKeys, principalID, email, roleID string) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(keys.ttl)),
		},
		PrincipalID: principalID,
		Email:       email,
		RoleID:      roleID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(keys.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of a JWT access token.
//
// # Failure Ordering
//
// Expiry is checked before the signature, so an expired token is always
// reported as [ErrTokenExpired] even when presented with a bad signature.
// This keeps audit logs honest about why a previously-valid credential
// stopped working.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	return service.verify(service.access, tokenString)
}

// VerifyRefreshToken checks the signature and validity of a JWT refresh token.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*AccessClaims, error) {
	return service.verify(service.refresh, tokenString)
}

func (service *TokenService) verify(keys signingKeys, tokenString string) (*AccessClaims, error) {
	// ── 1. Structural parse (no signature check yet) ──────────────────────

	parser := jwt.NewParser()
	unverified := &AccessClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, unverified); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	// ── 2. Expiry (takes precedence over signature validity) ──────────────

	if unverified.ExpiresAt != nil && time.Now().After(unverified.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	// ── 3. Cryptographic verification ─────────────────────────────────────

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return keys.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", ErrTokenSignatureInvalid, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
