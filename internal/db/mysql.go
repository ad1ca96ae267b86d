// internal/db/mysql.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDriver implements Driver for MySQL
type MySQLDriver struct {
	db     *sql.DB
	tunnel *SSHTunnel
}

func mysqlConfig(params ConnectParams) *mysql.Config {
	port := params.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(params.Host, strconv.Itoa(port))
	cfg.DBName = params.Database
	cfg.ParseTime = true
	return cfg
}

// Connect establishes connection to MySQL
func (d *MySQLDriver) Connect(ctx context.Context, params ConnectParams) error {
	cfg := mysqlConfig(params)

	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel

		// One registered network per connection so tunnels never cross.
		cfg.Net = fmt.Sprintf("mysql+ssh+%d", time.Now().UnixNano())
		mysql.RegisterDialContext(cfg.Net, func(ctx context.Context, addr string) (net.Conn, error) {
			return tunnel.DialContext(ctx, "tcp", addr)
		})
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		d.Close()
		return WrapConnectionError(err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// sql.Open is lazy
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		d.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

// Close closes the database connection and SSH tunnel
func (d *MySQLDriver) Close() error {
	var dbErr error
	if d.db != nil {
		dbErr = d.db.Close()
	}

	if d.tunnel != nil {
		err := d.tunnel.Close()
		d.tunnel = nil
		if err != nil {
			if dbErr != nil {
				return fmt.Errorf("db close err: %v, tunnel close err: %w", dbErr, err)
			}
			return err
		}
	}
	return dbErr
}

// Query runs a statement and returns results
func (d *MySQLDriver) Query(ctx context.Context, statement string, args ...any) (*QueryResult, error) {
	return executeQuery(ctx, d.db, statement, args...)
}

// Ping checks if database is reachable
func (d *MySQLDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *MySQLDriver) Type() DriverType {
	return MySQL
}
