package users

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Service is the credential store used by the rest of the app: it hashes passwords
// before they reach the CredentialStore and guards the admin account against deletion.
type Service struct {
	store CredentialStore
	// ability to inject id generation (for unit testing)
	NewIDFunc func() string
}

func NewService(store CredentialStore) *Service {
	return &Service{
		store:     store,
		NewIDFunc: uuid.NewString,
	}
}

func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.store.FindByUsername(ctx, username)
}

func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

// Create stores a new account; only the bcrypt hash of password is kept.
func (s *Service) Create(ctx context.Context, username, password string, role Role) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.create(ctx, username, passwordHash, role)
}

func (s *Service) create(ctx context.Context, username, passwordHash string, role Role) (*User, error) {
	if role != RoleStaff && role != RoleAdmin {
		return nil, ErrInvalidRole
	}

	user := &User{
		ID:           s.NewIDFunc(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}

	return user, nil
}

// Delete removes the account with the given id. Unknown ids and the admin account
// are silently left alone; deleted reports whether a record was actually removed.
func (s *Service) Delete(ctx context.Context, id string) (deleted bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user %s: %w", id, err)
	}

	if user.Protected() {
		log.Warnf("refusing to delete protected account [%s]", user.Username)
		return false, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}

	return true, nil
}

// SeedAdmin creates the admin account if it does not exist yet. Safe to run on every start.
func (s *Service) SeedAdmin(ctx context.Context, password string) (created bool, err error) {
	_, err = s.store.FindByUsername(ctx, AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	if password == "" {
		return false, errors.New("admin account missing and no seed admin password set")
	}

	_, err = s.Create(ctx, AdminUsername, password, RoleAdmin)
	if errors.Is(err, ErrPasswordTooLong) {
		return false, fmt.Errorf("seed admin password: %w", err)
	}
	if errors.Is(err, ErrDuplicateUsername) {
		// another instance seeded it in the meantime
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log.Infof("root admin account [%s] created", AdminUsername)
	return true, nil
}

type seedFile struct {
	Users []struct {
		Username     string `yaml:"username"`
		Password     string `yaml:"password"`
		PasswordHash string `yaml:"password_hash"`
		Role         string `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile creates the accounts listed in a YAML file, skipping usernames that
// already exist. Returns the number of accounts created.
func (s *Service) SeedFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return 0, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	created := 0
	for _, u := range sf.Users {
		if u.Username == "" || (u.Password == "" && u.PasswordHash == "") {
			log.Warnf("seed file %s: skipping incomplete entry [%s]", path, u.Username)
			continue
		}
		if u.PasswordHash != "" && !pkg.ValidPasswordHash(u.PasswordHash) {
			log.Warnf("seed file %s: skipping [%s], password_hash is not a bcrypt hash", path, u.Username)
			continue
		}

		role, err := ParseRole(u.Role)
		if err != nil {
			return created, fmt.Errorf("seed user %s: %w", u.Username, err)
		}

		if _, err := s.store.FindByUsername(ctx, u.Username); err == nil {
			continue
		} else if !errors.Is(err, ErrUserNotFound) {
			return created, err
		}

		if u.PasswordHash != "" {
			_, err = s.create(ctx, u.Username, u.PasswordHash, role)
		} else {
			_, err = s.Create(ctx, u.Username, u.Password, role)
		}
		if errors.Is(err, ErrDuplicateUsername) {
			continue
		}
		if err != nil {
			return created, err
		}

		log.Debugf("seeded account [%s] with role [%s]", u.Username, role)
		created++
	}

	return created, nil
}
