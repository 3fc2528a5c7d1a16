package session

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=session_test

// Store is the server side session table, keyed by the opaque token.
type Store interface {
	Save(ctx context.Context, token string, s *Session, ttl time.Duration) error
	// Get returns ErrSessionNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
