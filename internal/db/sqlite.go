package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens (or creates) the sqlite database behind dsn, e.g. "file:statuspanel.db"
// or "file:test?mode=memory&cache=shared" for an in-memory one.
func OpenSQLite(dsn string) (*sql.DB, error) {
	d, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// a shared-cache in-memory db lives as long as one connection does; a single
	// connection also avoids table lock errors between concurrent writers
	if strings.Contains(dsn, "mode=memory") {
		d.SetMaxOpenConns(1)
	}

	// journal_mode is not supported for in-memory databases
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return d, nil
}
