package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	for i := range 5 {
		require.NoError(t, q.Send(i))
	}
	assert.Equal(t, 5, q.Len())
	for i := range 5 {
		v, ok := q.TryRecv()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := q.TryRecv()
	assert.False(t, ok)
}

func TestQueueClose(t *testing.T) {
	q := NewQueue[string]()
	require.NoError(t, q.Send("a"))
	q.Close()
	assert.ErrorIs(t, q.Send("b"), ErrClosed)

	v, ok := q.TryRecv()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue[int]()
	var wg sync.WaitGroup
	for p := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				_ = q.Send(p*1000 + i)
			}
		}()
	}
	wg.Wait()

	last := map[int]int{}
	n := 0
	for {
		v, ok := q.TryRecv()
		if !ok {
			break
		}
		p, i := v/1000, v%1000
		if prev, seen := last[p]; seen {
			assert.Greater(t, i, prev, "per-producer order")
		}
		last[p] = i
		n++
	}
	assert.Equal(t, 800, n)
	select {
	case <-q.Ready():
	default:
		t.Fatal("ready not signalled")
	}
}
