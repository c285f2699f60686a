package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Token is the verified content of a session credential.
type Token struct {
	UID   string
	Email string
}

// Service verifies session credentials and manages custom claims.
type Service interface {
	VerifySessionToken(ctx context.Context, token string) (*Token, error)
	CustomClaims(ctx context.Context, uid string) (map[string]interface{}, error)
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}
