package session

import (
	"context"
	"errors"

	"github.com/2beens/statuspanel/internal/users"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid session token")
)

// Session is what the server remembers about a logged-in browser. The role is a
// snapshot taken at login and is not refreshed afterwards.
type Session struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Role     users.Role `json:"role"`
}

func FromUser(u *users.User) *Session {
	return &Session{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

func (s *Session) IsAdmin() bool {
	return s.Role == users.RoleAdmin
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
