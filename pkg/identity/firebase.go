package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// FirebaseService implements Service with Firebase Authentication.
type FirebaseService struct {
	client *auth.Client
}

func NewFirebaseService(ctx context.Context, app *firebase.App) (*FirebaseService, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}
	return &FirebaseService{client: client}, nil
}

func (s *FirebaseService) VerifySessionToken(ctx context.Context, token string) (*Token, error) {
	decoded, err := s.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := decoded.Claims["email"].(string)
	return &Token{UID: decoded.UID, Email: email}, nil
}

func (s *FirebaseService) CustomClaims(ctx context.Context, uid string) (map[string]interface{}, error) {
	user, err := s.client.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	claims := make(map[string]interface{}, len(user.CustomClaims))
	for k, v := range user.CustomClaims {
		claims[k] = v
	}
	return claims, nil
}

func (s *FirebaseService) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if err := s.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("set custom claims for %s: %w", uid, err)
	}
	return nil
}
