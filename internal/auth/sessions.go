package auth

import (
	"context"
	"time"

	"snackshop/internal/redisclient"

	"github.com/google/uuid"
)

// Session scopes. Customer and admin sessions are separate credential
// schemes; a token from one scope never resolves in the other.
const (
	ScopeUser  = "user"
	ScopeAdmin = "admin"
)

// Sessions issues and resolves opaque session tokens backed by Redis
// with a TTL, so any server instance can resolve any session.
type Sessions struct {
	redis *redisclient.Client
	ttl   time.Duration
}

// NewSessions creates a session manager
func NewSessions(redis *redisclient.Client, ttl time.Duration) *Sessions {
	return &Sessions{redis: redis, ttl: ttl}
}

// TTL returns the configured session lifetime
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create issues a new session token for a principal
func (s *Sessions) Create(ctx context.Context, scope, principalID string) (string, error) {
	token := uuid.New().String()
	if err := s.redis.SaveSession(ctx, scope, token, principalID, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token back to its principal ID, sliding the TTL on a
// hit. Returns empty for unknown or expired tokens.
func (s *Sessions) Resolve(ctx context.Context, scope, token string) (string, error) {
	principalID, err := s.redis.GetSession(ctx, scope, token)
	if err != nil {
		return "", err
	}
	if principalID != "" {
		_ = s.redis.TouchSession(ctx, scope, token, s.ttl)
	}
	return principalID, nil
}

// Revoke invalidates a session token
func (s *Sessions) Revoke(ctx context.Context, scope, token string) error {
	return s.redis.DeleteSession(ctx, scope, token)
}
