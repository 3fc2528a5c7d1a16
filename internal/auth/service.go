package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/internal/users"
	"github.com/2beens/statuspanel/pkg"

	"go.opentelemetry.io/otel/codes"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type credentialFinder interface {
	FindByUsername(ctx context.Context, username string) (*users.User, error)
}

type Service struct {
	users credentialFinder
	// compared against when the username is unknown, so both failure paths cost one bcrypt run
	dummyHash string
}

func NewService(users credentialFinder) (*Service, error) {
	dummyHash, err := pkg.HashPassword("statuspanel-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("create dummy hash: %w", err)
	}
	return &Service{
		users:     users,
		dummyHash: dummyHash,
	}, nil
}

// Login checks the credentials and returns the matching user. Unknown usernames and
// wrong passwords both end in ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (_ *users.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			pkg.CheckPasswordHash(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
