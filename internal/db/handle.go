package db

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Handle is a shared reference to one open Driver. Every holder obtains
// its own reference with Clone and gives it back with Release; the driver
// is closed when the last reference is released.
type Handle struct {
	shared *handleState
	once   sync.Once
}

type handleState struct {
	driver     Driver
	name       string
	generation uint64
	timeout    time.Duration
	refs       atomic.Int64
}

// NewHandle wraps an already connected driver. timeout bounds every Query;
// zero means no bound.
func NewHandle(driver Driver, name string, generation uint64, timeout time.Duration) *Handle {
	st := &handleState{driver: driver, name: name, generation: generation, timeout: timeout}
	st.refs.Store(1)
	return &Handle{shared: st}
}

// Clone returns a new reference to the same driver.
func (h *Handle) Clone() *Handle {
	h.shared.refs.Add(1)
	return &Handle{shared: h.shared}
}

// Release drops this reference. Releasing twice is a no-op.
func (h *Handle) Release() error {
	var err error
	h.once.Do(func() {
		if h.shared.refs.Add(-1) == 0 {
			err = h.shared.driver.Close()
		}
	})
	return err
}

// Refs reports the number of live references.
func (h *Handle) Refs() int64 { return h.shared.refs.Load() }

// Name is the connection directory entry this handle was opened from.
func (h *Handle) Name() string { return h.shared.name }

// Generation orders handles by the connection request that produced them.
func (h *Handle) Generation() uint64 { return h.shared.generation }

// Type is the dialect of the underlying driver.
func (h *Handle) Type() DriverType { return h.shared.driver.Type() }

// Query runs req on the underlying driver.
func (h *Handle) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	if h.shared.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.shared.timeout)
		defer cancel()
	}
	return h.shared.driver.Query(ctx, req.Statement, req.Params...)
}
