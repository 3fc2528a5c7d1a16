package status

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=status_test

// StatusStore persists one record per service name.
type StatusStore interface {
	All(ctx context.Context) ([]*Status, error)
	// Upsert creates the record for u.ServiceName (with the given id) or updates the
	// existing one in a single statement, returning the stored record.
	Upsert(ctx context.Context, id string, u Update, now time.Time) (*Status, error)
}
