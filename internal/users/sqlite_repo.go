package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/statuspanel/pkg"
)

var _ CredentialStore = (*SQLiteRepo)(nil)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{
		db: db,
	}
}

func (r *SQLiteRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`,
		username,
	)
	return r.singleUser(row)
}

func (r *SQLiteRepo) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE id = ?`,
		id,
	)
	return r.singleUser(row)
}

func (r *SQLiteRepo) Create(ctx context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt.UTC(),
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM users WHERE id = ? AND username <> ?`,
		id, AdminUsername,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *SQLiteRepo) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, username, password_hash, role, created_at FROM users ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (r *SQLiteRepo) singleUser(row *sql.Row) (*User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}
