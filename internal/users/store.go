package users

import "context"

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=users_test

// CredentialStore persists user records. Implementations report a missing record
// with ErrUserNotFound and a taken username with ErrDuplicateUsername.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*User, error)
}
