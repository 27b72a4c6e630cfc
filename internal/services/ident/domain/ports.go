// Package domain defines the core types and interfaces for the ident service
package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Identity is the resolved principal behind a bearer token
type Identity struct {
	UserID string
}

// VerifierPort resolves an opaque bearer token to the owning user
// absence of a valid token is an unauthorized error, never retried here
type VerifierPort interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Repo abstracts token lookups for the verifier
type Repo interface {
	// UserIDForToken returns the user owning the token hash, ok=false when
	// the token is unknown or revoked
	UserIDForToken(ctx context.Context, tokenHash string) (string, bool, error)
}

// HashToken derives the stored lookup key for a raw bearer token
// tokens are never persisted in the clear
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
