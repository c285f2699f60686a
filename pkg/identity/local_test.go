package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocalServiceRoundTrip(t *testing.T) {
	s := NewLocalService("test-secret")
	tok, err := s.IssueToken("uid-1", "student@byui.edu", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := s.VerifySessionToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UID != "uid-1" || got.Email != "student@byui.edu" {
		t.Fatalf("unexpected token %+v", got)
	}
}

func TestLocalServiceRejectsExpiredAndForeignTokens(t *testing.T) {
	s := NewLocalService("test-secret")
	expired, _ := s.IssueToken("uid-1", "a@byui.edu", -time.Minute)
	if _, err := s.VerifySessionToken(context.Background(), expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	other := NewLocalService("other-secret")
	foreign, _ := other.IssueToken("uid-1", "a@byui.edu", time.Minute)
	if _, err := s.VerifySessionToken(context.Background(), foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	if _, err := s.VerifySessionToken(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestLocalServiceClaimsAreCopied(t *testing.T) {
	s := NewLocalService("k")
	ctx := context.Background()
	in := map[string]interface{}{"admin": true}
	if err := s.SetCustomClaims(ctx, "u", in); err != nil {
		t.Fatalf("set: %v", err)
	}
	in["admin"] = false

	got, _ := s.CustomClaims(ctx, "u")
	if got["admin"] != true {
		t.Fatalf("claims were aliased: %+v", got)
	}
	got["extra"] = 1
	again, _ := s.CustomClaims(ctx, "u")
	if _, ok := again["extra"]; ok {
		t.Fatalf("returned claims were aliased")
	}
}
