// internal/db/sqlite_test.go
package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) Driver {
	t.Helper()
	d, err := Open(context.Background(), SQLite, ConnectParams{Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestSQLiteDriver(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)
	require.NoError(t, d.Ping(ctx))
	assert.Equal(t, SQLite, d.Type())

	_, err := d.Query(ctx, `CREATE TABLE teams (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = d.Query(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, team_id INTEGER REFERENCES teams(id), avatar BLOB)`)
	require.NoError(t, err)

	res, err := d.Query(ctx, `INSERT INTO teams (id, name) VALUES (?, ?)`, 1, "core")
	require.NoError(t, err)
	assert.False(t, res.IsSelect)
	assert.EqualValues(t, 1, res.AffectedRows)

	_, err = d.Query(ctx, `INSERT INTO users (name, team_id, avatar) VALUES (?, ?, ?)`, "ada", 1, []byte{0xff, 0x00})
	require.NoError(t, err)
	_, err = d.Query(ctx, `INSERT INTO users (name, team_id, avatar) VALUES (?, NULL, NULL)`, "bob")
	require.NoError(t, err)

	res, err = d.Query(ctx, `SELECT name, team_id, avatar FROM users ORDER BY id`)
	require.NoError(t, err)
	assert.True(t, res.IsSelect)
	assert.Equal(t, []string{"name", "team_id", "avatar"}, res.Columns)
	assert.Equal(t, [][]string{
		{"ada", "1", `\xff00`},
		{"bob", "NULL", "NULL"},
	}, res.Rows)
	assert.Equal(t, 2, res.RowCount)
}

func TestSQLiteSystemQueries(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)

	_, err := d.Query(ctx, `CREATE TABLE teams (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = d.Query(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL DEFAULT 'x', team_id INTEGER REFERENCES teams(id))`)
	require.NoError(t, err)

	req, err := SystemQuery(ListTablesTag(), SQLite)
	require.NoError(t, err)
	res, err := d.Query(ctx, req.Statement, req.Params...)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"main", "teams"}, {"main", "users"}}, res.Rows)

	req, err = SystemQuery(TableStructureTag(TableRef{Name: "users"}), SQLite)
	require.NoError(t, err)
	res, err = d.Query(ctx, req.Statement, req.Params...)
	require.NoError(t, err)
	assert.Equal(t, []string{"column_name", "data_type", "is_nullable", "column_default", "foreign_key"}, res.Columns)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"name", "TEXT", "NO", "'x'", "NULL"}, res.Rows[1])
	assert.Equal(t, []string{"team_id", "INTEGER", "YES", "NULL", "teams(id)"}, res.Rows[2])

	req, err = SystemQuery(InitialTableTag(TableRef{Name: "users"}), SQLite)
	require.NoError(t, err)
	res, err = d.Query(ctx, req.Statement)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "team_id"}, res.Columns)
}

func TestSQLiteEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), SQLite, ConnectParams{})
	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}
