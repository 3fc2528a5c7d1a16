package status

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ StatusStore = (*SQLiteRepo)(nil)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{
		db: db,
	}
}

func (r *SQLiteRepo) All(ctx context.Context) ([]*Status, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, service_name, state, queue_state, note, updated_at FROM statuses ORDER BY service_name`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

// Upsert writes in a single statement, then reads the record back: RETURNING columns
// carry no declared type and go-sqlite3 would not parse updated_at.
func (r *SQLiteRepo) Upsert(ctx context.Context, id string, u Update, now time.Time) (*Status, error) {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO statuses (id, service_name, state, queue_state, note, updated_at)
		VALUES (?1, ?2, ?3, CASE WHEN ?4 = '' THEN 'N/A' ELSE ?4 END, ?5, ?6)
		ON CONFLICT (service_name) DO UPDATE SET
			state = excluded.state,
			queue_state = CASE WHEN ?4 = '' THEN statuses.queue_state ELSE excluded.queue_state END,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		id, u.ServiceName, u.State, u.QueueState, u.Note, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert status %s: %w", u.ServiceName, err)
	}

	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, service_name, state, queue_state, note, updated_at FROM statuses WHERE service_name = ?`,
		u.ServiceName,
	)
	s, err := scanStatus(row)
	if err != nil {
		return nil, fmt.Errorf("read status %s: %w", u.ServiceName, err)
	}
	return s, nil
}
