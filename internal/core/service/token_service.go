package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

// TokenService mints and resolves bearer session tokens.
//
// A token is an HS256 JWT carrying a random session id (jti) and the user
// id (sub). The signature only proves the token came from us; the session
// binding in the store is authoritative, so revocation takes effect on the
// very next Validate call with no window where a dead token still passes.
type TokenService struct {
	sessions ports.SessionStore
	users    ports.UserRepository
	secret   []byte
	ttl      time.Duration
}

func NewTokenService(sessions ports.SessionStore, users ports.UserRepository, secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		sessions: sessions,
		users:    users,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// Issue mints a token bound to user and records the session binding.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (string, error) {
	sessionID := uuid.NewString()

	if err := s.sessions.Put(ctx, sessionID, user.ID, s.ttl); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"jti": sessionID,
		"sub": user.ID,
		"exp": time.Now().Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate resolves a presented token to its user. Tampered, expired,
// unknown and revoked tokens all fail the same way.
func (s *TokenService) Validate(ctx context.Context, token string) (*domain.User, error) {
	sessionID, userID, err := s.parse(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	boundID, err := s.sessions.Get(ctx, sessionID)
	if err != nil || boundID != userID {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

// Revoke deletes the session behind token. Unknown and already-revoked
// tokens are ignored; a token that fails signature checks is rejected.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	sessionID, _, err := s.parse(token)
	if err != nil {
		return domain.ErrInvalidToken
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *TokenService) parse(token string) (sessionID, userID string, err error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", "", domain.ErrInvalidToken
	}

	sessionID, _ = claims["jti"].(string)
	userID, _ = claims["sub"].(string)
	if sessionID == "" || userID == "" {
		return "", "", domain.ErrInvalidToken
	}
	return sessionID, userID, nil
}
