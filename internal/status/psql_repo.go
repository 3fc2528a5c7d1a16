package status

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/statuspanel/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ StatusStore = (*PsqlRepo)(nil)

type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

func (r *PsqlRepo) All(ctx context.Context) ([]*Status, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "statusRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, service_name, state, queue_state, note, updated_at FROM statuses ORDER BY service_name;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}

	return statuses, rows.Err()
}

func (r *PsqlRepo) Upsert(ctx context.Context, id string, u Update, now time.Time) (*Status, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "statusRepo.Upsert")
	span.SetAttributes(attribute.String("service", u.ServiceName))
	defer span.End()

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO statuses (id, service_name, state, queue_state, note, updated_at)
		VALUES ($1, $2, $3, CASE WHEN $4::text = '' THEN 'N/A' ELSE $4::text END, $5, $6)
		ON CONFLICT (service_name) DO UPDATE SET
			state = EXCLUDED.state,
			queue_state = CASE WHEN $4::text = '' THEN statuses.queue_state ELSE EXCLUDED.queue_state END,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
		RETURNING id, service_name, state, queue_state, note, updated_at;`,
		id, u.ServiceName, u.State, u.QueueState, u.Note, now,
	)

	s, err := scanStatus(row)
	if err != nil {
		return nil, fmt.Errorf("upsert status %s: %w", u.ServiceName, err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatus(row rowScanner) (*Status, error) {
	var s Status
	if err := row.Scan(&s.ID, &s.ServiceName, &s.State, &s.QueueState, &s.Note, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
