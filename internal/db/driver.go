// internal/db/driver.go
package db

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// ParseDriverType maps a config value to a DriverType. Empty means postgres.
func ParseDriverType(s string) (DriverType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unknown driver type: %s", s)
	}
}

// ConnectParams holds database connection details
type ConnectParams struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSHConfig *SSHConfig // Optional SSH tunnel config
}

// Driver is the query-executing capability behind a connection.
type Driver interface {
	Connect(ctx context.Context, params ConnectParams) error
	Close() error
	Query(ctx context.Context, statement string, args ...any) (*QueryResult, error)
	Ping(ctx context.Context) error
	Type() DriverType
}

// QueryResult contains query execution results. Every row has exactly
// len(Columns) display-formatted cells.
type QueryResult struct {
	Columns      []string
	Rows         [][]string
	ExecTime     time.Duration
	RowCount     int
	IsSelect     bool
	AffectedRows int64
}

// Summary is a one-line description for the messages pane.
func (r *QueryResult) Summary() string {
	if r == nil {
		return "no results"
	}
	if !r.IsSelect {
		return fmt.Sprintf("%d rows affected (%s)", r.AffectedRows, r.ExecTime.Round(time.Millisecond))
	}
	return fmt.Sprintf("%d results (%s)", r.RowCount, r.ExecTime.Round(time.Millisecond))
}

// NewDriver creates a new driver instance by type
func NewDriver(driverType DriverType) (Driver, error) {
	switch driverType {
	case Postgres:
		return &PostgresDriver{}, nil
	case MySQL:
		return &MySQLDriver{}, nil
	case SQLite:
		return &SQLiteDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown driver type: %s", driverType)
	}
}

// Open creates a driver for driverType and connects it.
func Open(ctx context.Context, driverType DriverType, params ConnectParams) (Driver, error) {
	d, err := NewDriver(driverType)
	if err != nil {
		return nil, err
	}
	if err := d.Connect(ctx, params); err != nil {
		return nil, err
	}
	return d, nil
}

// isSelect reports whether the statement returns rows.
func isSelect(query string) bool {
	trimmed := strings.TrimSpace(strings.ToUpper(query))
	for _, prefix := range []string{"SELECT", "WITH", "EXPLAIN", "DESCRIBE", "SHOW", "PRAGMA", "VALUES", "TABLE"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// executeQuery executes a query and returns results
func executeQuery(ctx context.Context, db *sql.DB, query string, args ...any) (*QueryResult, error) {
	if db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	start := time.Now()
	if isSelect(query) {
		return executeSelect(ctx, db, query, args, start)
	}
	return executeDML(ctx, db, query, args, start)
}

// executeSelect executes a row-returning statement
func executeSelect(ctx context.Context, db *sql.DB, query string, args []any, start time.Time) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapQueryError(err)
	}
	results := [][]string{}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, WrapQueryError(err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     results,
		ExecTime: time.Since(start),
		RowCount: len(results),
		IsSelect: true,
	}, nil
}

// executeDML executes INSERT/UPDATE/DELETE and DDL statements
func executeDML(ctx context.Context, db *sql.DB, query string, args []any, start time.Time) (*QueryResult, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	affected, _ := result.RowsAffected()
	return &QueryResult{
		ExecTime:     time.Since(start),
		IsSelect:     false,
		AffectedRows: affected,
	}, nil
}

// formatValue converts a scanned value to its display string
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	switch val := v.(type) {
	case []byte:
		// bytea and blobs: readable text when possible, hex otherwise
		if utf8.Valid(val) {
			return string(val)
		}
		return `\x` + hex.EncodeToString(val)
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}
