package ports

import (
	"context"
	"time"

	"github.com/userhub/account-service/internal/core/domain"
)

// TokenService issues, validates and revokes bearer session tokens.
type TokenService interface {
	// Issue mints a token bound to user and records the session binding.
	Issue(ctx context.Context, user *domain.User) (string, error)
	// Validate resolves a presented token back to its user. It returns
	// domain.ErrInvalidToken for unknown, revoked, expired or tampered tokens.
	Validate(ctx context.Context, token string) (*domain.User, error)
	// Revoke kills the session behind token. Revoking an unknown or
	// already-revoked token is not an error, but Validate must fail afterwards.
	Revoke(ctx context.Context, token string) error
}

// SessionStore persists the binding between a session id and a user id.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Get returns the bound user id, or domain.ErrInvalidToken when the
	// session is absent or expired.
	Get(ctx context.Context, sessionID string) (string, error)
	// Delete removes the binding. Deleting an absent session is a no-op.
	Delete(ctx context.Context, sessionID string) error
}
