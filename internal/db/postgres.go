// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresDriver implements Driver for PostgreSQL
type PostgresDriver struct {
	db     *sql.DB
	tunnel *SSHTunnel
}

func postgresDSN(params ConnectParams) string {
	port := params.Port
	if port == 0 {
		port = 5432
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(params.User, params.Password),
		Host:   net.JoinHostPort(params.Host, strconv.Itoa(port)),
		Path:   "/" + params.Database,
	}
	return u.String()
}

// Connect establishes connection to PostgreSQL
func (d *PostgresDriver) Connect(ctx context.Context, params ConnectParams) error {
	connConfig, err := pgx.ParseConfig(postgresDSN(params))
	if err != nil {
		return WrapConnectionError(err)
	}

	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel

		// The remote side resolves the database host, not this machine.
		connConfig.LookupFunc = func(ctx context.Context, host string) ([]string, error) {
			return []string{host}, nil
		}
		remoteAddr := net.JoinHostPort(connConfig.Host, strconv.Itoa(int(connConfig.Port)))
		connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return tunnel.DialContext(ctx, network, remoteAddr)
		}
	}

	db, err := sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
	if err != nil {
		d.closeTunnel()
		return WrapConnectionError(err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		d.closeTunnel()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

func (d *PostgresDriver) closeTunnel() {
	if d.tunnel != nil {
		d.tunnel.Close()
		d.tunnel = nil
	}
}

// Close closes the database connection and SSH tunnel
func (d *PostgresDriver) Close() error {
	var dbErr error
	if d.db != nil {
		dbErr = d.db.Close()
	}

	if d.tunnel != nil {
		if err := d.tunnel.Close(); err != nil {
			if dbErr != nil {
				return fmt.Errorf("db close err: %v, tunnel close err: %w", dbErr, err)
			}
			return err
		}
	}
	return dbErr
}

// Query runs a statement and returns results
func (d *PostgresDriver) Query(ctx context.Context, statement string, args ...any) (*QueryResult, error) {
	return executeQuery(ctx, d.db, statement, args...)
}

// Ping checks if database is reachable
func (d *PostgresDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *PostgresDriver) Type() DriverType {
	return Postgres
}
