// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhive/devhive/internal/platform/sec"
)

// newTestService builds a TokenService with short, known settings.
func newTestService(accessTTL time.Duration) *sec.TokenService {
	return sec.NewTokenService(sec.TokenOptions{
		AccessSecret:  "test-access-secret",
		AccessExpiry:  accessTTL,
		RefreshSecret: "test-refresh-secret",
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "devhive.test",
	})
}

/*
TestTokenService_IssueAndVerify checks the happy-path round trip and that
all embedded claims survive signing.
*/
func TestTokenService_IssueAndVerify(t *testing.T) {
	service := newTestService(4 * time.Hour)

	token, err := service.IssueAccessToken("user-123", "ada@devhive.dev", "role-456")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.PrincipalID)
	assert.Equal(t, "ada@devhive.dev", claims.Email)
	assert.Equal(t, "role-456", claims.RoleID)
	assert.Equal(t, "devhive.test", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(4*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

/*
TestTokenService_Expired checks that an expired token is always classified
as expired.
*/
func TestTokenService_Expired(t *testing.T) {
	// Negative TTL issues a token that is already past its exp claim.
	service := newTestService(-1 * time.Hour)

	token, err := service.IssueAccessToken("user-123", "ada@devhive.dev", "")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_ExpiredBeatsBadSignature checks the failure ordering: an
expired token presented against a different secret is still reported as
expired, not as a signature failure.
*/
func TestTokenService_ExpiredBeatsBadSignature(t *testing.T) {
	issuing := newTestService(-1 * time.Hour)
	verifying := sec.NewTokenService(sec.TokenOptions{
		AccessSecret:  "a-completely-different-secret",
		AccessExpiry:  4 * time.Hour,
		RefreshSecret: "another",
		RefreshExpiry: time.Hour,
		Issuer:        "devhive.test",
	})

	token, err := issuing.IssueAccessToken("user-123", "ada@devhive.dev", "")
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_WrongSecret checks that a live token signed with a foreign
secret fails with a signature error.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuing := newTestService(4 * time.Hour)
	verifying := sec.NewTokenService(sec.TokenOptions{
		AccessSecret:  "a-completely-different-secret",
		AccessExpiry:  4 * time.Hour,
		RefreshSecret: "another",
		RefreshExpiry: time.Hour,
		Issuer:        "devhive.test",
	})

	token, err := issuing.IssueAccessToken("user-123", "ada@devhive.dev", "")
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(token)
	assert.ErrorIs(t, err, sec.ErrTokenSignatureInvalid)
}

/*
TestTokenService_Malformed checks classification of unparseable input.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTestService(4 * time.Hour)

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-jwt-at-all"},
		{"empty", ""},
		{"two_segments", "abc.def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyAccessToken(tt.raw)
			assert.ErrorIs(t, err, sec.ErrTokenMalformed)
		})
	}
}

/*
TestTokenService_RefreshPairIsIndependent checks that access tokens do not
verify against the refresh secret and vice versa.
*/
func TestTokenService_RefreshPairIsIndependent(t *testing.T) {
	service := newTestService(4 * time.Hour)

	accessToken, err := service.IssueAccessToken("user-123", "ada@devhive.dev", "")
	require.NoError(t, err)

	refreshToken, err := service.IssueRefreshToken("user-123", "ada@devhive.dev")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, sec.ErrTokenSignatureInvalid)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, sec.ErrTokenSignatureInvalid)

	claims, err := service.VerifyRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.PrincipalID)
}

/*
TestHashPassword covers the bcrypt round trip.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, sec.CheckPasswordHash("hunter2hunter2", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestGenerateSecureToken checks token length and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 64) // hex-encoded

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Hashing is deterministic
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
}
