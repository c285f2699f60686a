package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LocalService verifies HS256 session tokens signed with a shared secret and
// keeps custom claims in memory. It stands in for Firebase Authentication when
// the service runs against the emulators.
type LocalService struct {
	secret []byte

	mu     sync.RWMutex
	claims map[string]map[string]interface{}
}

func NewLocalService(secret string) *LocalService {
	return &LocalService{
		secret: []byte(secret),
		claims: make(map[string]map[string]interface{}),
	}
}

// IssueToken mints a session token for uid valid for ttl.
func (s *LocalService) IssueToken(uid, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   uid,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *LocalService) VerifySessionToken(_ context.Context, tokenString string) (*Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}
	uid, err := claims.GetSubject()
	if err != nil || uid == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	return &Token{UID: uid, Email: email}, nil
}

func (s *LocalService) CustomClaims(_ context.Context, uid string) (map[string]interface{}, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.claims[uid]))
	for k, v := range s.claims[uid] {
		out[k] = v
	}
	return out, nil
}

func (s *LocalService) SetCustomClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	if uid == "" {
		return errors.New("uid is required")
	}
	cp := make(map[string]interface{}, len(claims))
	for k, v := range claims {
		cp[k] = v
	}
	s.mu.Lock()
	s.claims[uid] = cp
	s.mu.Unlock()
	return nil
}
