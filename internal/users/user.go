package users

import (
	"errors"
	"time"
)

// AdminUsername is the seeded root account; it can never be deleted.
const AdminUsername = "admin"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrEmptyCredentials  = errors.New("username or password empty")

	// bcrypt only hashes the first 72 bytes and refuses anything longer
	ErrPasswordTooLong = errors.New("password longer than 72 bytes")
)

type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// ParseRole maps form input to a Role; empty input means staff.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "", RoleStaff:
		return RoleStaff, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID           string    `json:"id" yaml:"-"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Protected reports whether the account is immune to deletion.
func (u *User) Protected() bool {
	return u.Username == AdminUsername
}
