package users

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ CredentialStore = (*PsqlRepo)(nil)

type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

func (r *PsqlRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.FindByUsername")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1;`,
		username,
	)
	if err != nil {
		return nil, err
	}
	return r.singleUser(rows)
}

func (r *PsqlRepo) FindByID(ctx context.Context, id string) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.FindByID")
	span.SetAttributes(attribute.String("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	return r.singleUser(rows)
}

func (r *PsqlRepo) Create(ctx context.Context, user *User) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Create")
	defer span.End()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5);`,
		user.ID, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// Delete removes the user, the protected admin account is never matched.
func (r *PsqlRepo) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Delete")
	span.SetAttributes(attribute.String("id", id))
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM users WHERE id = $1 AND username <> $2;`,
		id, AdminUsername,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PsqlRepo) List(ctx context.Context) ([]*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.List")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, username, password_hash, role, created_at FROM users ORDER BY created_at, id;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func (r *PsqlRepo) singleUser(rows pgx.Rows) (*User, error) {
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrUserNotFound
	}

	return scanUser(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = Role(role)
	return &u, nil
}
