package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDriver struct {
	closed   int
	deadline bool
}

func (d *countingDriver) Connect(context.Context, ConnectParams) error { return nil }
func (d *countingDriver) Close() error                                 { d.closed++; return nil }
func (d *countingDriver) Ping(context.Context) error                   { return nil }
func (d *countingDriver) Type() DriverType                             { return Postgres }

func (d *countingDriver) Query(ctx context.Context, statement string, args ...any) (*QueryResult, error) {
	_, d.deadline = ctx.Deadline()
	return &QueryResult{Columns: []string{"stmt"}, Rows: [][]string{{statement}}, IsSelect: true, RowCount: 1}, nil
}

func TestHandleClosesOnLastRelease(t *testing.T) {
	drv := &countingDriver{}
	h := NewHandle(drv, "local", 3, 0)
	c := h.Clone()
	assert.EqualValues(t, 2, h.Refs())

	require.NoError(t, h.Release())
	require.NoError(t, h.Release())
	assert.Equal(t, 0, drv.closed)
	assert.EqualValues(t, 1, c.Refs())

	require.NoError(t, c.Release())
	assert.Equal(t, 1, drv.closed)
	assert.Equal(t, "local", c.Name())
	assert.EqualValues(t, 3, c.Generation())
}

func TestHandleQueryTimeout(t *testing.T) {
	drv := &countingDriver{}
	h := NewHandle(drv, "local", 1, time.Second)
	res, err := h.Query(context.Background(), NewUserQuery("select 1"))
	require.NoError(t, err)
	assert.True(t, drv.deadline)
	assert.Equal(t, "select 1", res.Rows[0][0])

	h = NewHandle(drv, "local", 1, 0)
	_, err = h.Query(context.Background(), NewUserQuery("select 1"))
	require.NoError(t, err)
	assert.False(t, drv.deadline)
}
