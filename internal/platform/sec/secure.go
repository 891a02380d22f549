// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random hex token of the
// given byte length. Used for password-reset tokens, which are opaque and
// stored server-side (unlike JWTs).
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 hex digest of a token.
//
// Opaque tokens are stored hashed so a leaked store snapshot cannot be
// replayed against the API.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
