// internal/history/store.go
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	// entries kept per connection
	perConnectionLimit = 1000
)

// Entry is one user-run statement.
type Entry struct {
	ID           int64
	Connection   string
	Query        string
	Tag          string
	ExecutedAt   time.Time
	Duration     time.Duration
	RowCount     int
	Status       string
	ErrorMessage string
}

// QueryPreview returns a truncated version of the query
func (e *Entry) QueryPreview(maxLen int) string {
	q := []rune(e.Query)
	if len(q) > maxLen && maxLen > 3 {
		return string(q[:maxLen-3]) + "..."
	}
	return e.Query
}

// Store manages query history persistence
type Store struct {
	db *sql.DB
}

// DefaultPath is the history database under the XDG data dir.
func DefaultPath() (string, error) {
	return xdg.DataFile("lazydb/history.db")
}

// NewStore opens (and creates) the history database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// single writer; also keeps :memory: on one connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			connection TEXT NOT NULL,
			query TEXT NOT NULL,
			tag TEXT NOT NULL DEFAULT 'User',
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			duration_ms INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_history_connection ON history(connection);
		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON history(executed_at);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.cleanup(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a new execution into history
func (s *Store) Add(ctx context.Context, entry *Entry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO history (connection, query, tag, executed_at, duration_ms, row_count, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Connection,
		entry.Query,
		entry.Tag,
		entry.ExecutedAt,
		entry.Duration.Milliseconds(),
		entry.RowCount,
		entry.Status,
		entry.ErrorMessage,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	return s.enforceLimit(ctx, entry.Connection, perConnectionLimit)
}

// enforceLimit keeps only the most recent N entries per connection
func (s *Store) enforceLimit(ctx context.Context, connection string, limit int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM history
		WHERE connection = ?
		AND id NOT IN (
			SELECT id FROM history
			WHERE connection = ?
			ORDER BY executed_at DESC, id DESC
			LIMIT ?
		)
	`, connection, connection, limit)
	return err
}

// List returns the newest entries for a connection. An empty connection
// lists every connection.
func (s *Store) List(ctx context.Context, connection string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, connection, query, tag, executed_at, duration_ms, row_count, status, error_message
		FROM history
		WHERE ? = '' OR connection = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, connection, connection, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var errMsg sql.NullString
		if err := rows.Scan(&e.ID, &e.Connection, &e.Query, &e.Tag, &e.ExecutedAt,
			&durationMs, &e.RowCount, &e.Status, &errMsg); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ErrorMessage = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries for a connection
func (s *Store) Count(ctx context.Context, connection string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM history WHERE connection = ?
	`, connection).Scan(&count)
	return count, err
}

// cleanup removes history entries older than 90 days
func (s *Store) cleanup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM history
		WHERE executed_at < datetime('now', '-90 days')
	`)
	return err
}
