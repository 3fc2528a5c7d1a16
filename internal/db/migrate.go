package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigratePostgres brings the postgres schema (users, statuses) up to date.
// It uses its own short-lived connection, the app itself talks to postgres through pgxpool.
func MigratePostgres(databaseURL string) (err error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open postgres for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return multierr.Combine(
			fmt.Errorf("create postgres migration driver: %w", err),
			sqlDB.Close(),
		)
	}

	m, err := newMigrate("migrations/postgres", "postgres", driver)
	if err != nil {
		return multierr.Combine(err, sqlDB.Close())
	}
	defer func() {
		// closes sqlDB as well
		sourceErr, dbErr := m.Close()
		err = multierr.Combine(err, sourceErr, dbErr)
	}()

	return up(m)
}

// MigrateSQLite brings the sqlite schema up to date. The given handle stays open.
func MigrateSQLite(sqlDB *sql.DB) error {
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}

	m, err := newMigrate("migrations/sqlite", "sqlite3", driver)
	if err != nil {
		return err
	}

	return up(m)
}

func newMigrate(path, dbName string, driver database.Driver) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, path)
	if err != nil {
		return nil, fmt.Errorf("open migrations source %s: %w", path, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return m, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("get migration version: %w", err)
	}

	log.Debugf("migrations done, version: %d, dirty: %t", version, dirty)
	return nil
}
