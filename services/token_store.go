package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// TokenKeyBytes is the amount of randomness in a token; keys are hex encoded (40 chars)
const TokenKeyBytes = 20

// ErrTokenNotFound is returned when a token is unknown or revoked
var ErrTokenNotFound = errors.New("token not found")

// TokenStore maps opaque bearer tokens to user ids
type TokenStore interface {
	// Issue returns the user's live token, creating one if none exists
	Issue(ctx context.Context, userID uint) (string, error)

	// Lookup resolves a token to the user id it was issued for
	Lookup(ctx context.Context, token string) (uint, error)

	// Revoke deletes a token; revoking an absent token is not an error
	Revoke(ctx context.Context, token string) error
}

// GenerateTokenKey returns a new random hex token
func GenerateTokenKey() (string, error) {
	b := make([]byte, TokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
