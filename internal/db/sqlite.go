// internal/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDriver implements Driver for SQLite
type SQLiteDriver struct {
	db *sql.DB
}

// Connect opens the database file named by params.Database.
func (d *SQLiteDriver) Connect(ctx context.Context, params ConnectParams) error {
	dsn := strings.TrimPrefix(params.Database, "sqlite://")
	if dsn == "" {
		return WrapConnectionError(fmt.Errorf("sqlite database path is empty"))
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return WrapConnectionError(err)
	}
	// :memory: databases are per connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return WrapConnectionError(fmt.Errorf("pragma foreign_keys: %w", err))
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 10000"); err != nil {
		db.Close()
		return WrapConnectionError(fmt.Errorf("pragma busy_timeout: %w", err))
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *SQLiteDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Query runs a statement and returns results
func (d *SQLiteDriver) Query(ctx context.Context, statement string, args ...any) (*QueryResult, error) {
	return executeQuery(ctx, d.db, statement, args...)
}

// Ping checks if database is reachable
func (d *SQLiteDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *SQLiteDriver) Type() DriverType {
	return SQLite
}
