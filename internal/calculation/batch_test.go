package calculation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatchKeepsOrder(t *testing.T) {
	out := make([]int, 50)
	err := RunBatch(context.Background(), len(out), 8, func(i int) {
		out[i] = i * i
	})

	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestRunBatchBoundsConcurrency(t *testing.T) {
	var running, peak int32
	err := RunBatch(context.Background(), 20, 3, func(int) {
		now := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if now <= old || atomic.CompareAndSwapInt32(&peak, old, now) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&running, -1)
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	err := RunBatch(ctx, 10, 2, func(int) { atomic.AddInt32(&calls, 1) })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRunBatchDefaultWorkers(t *testing.T) {
	var calls int32
	err := RunBatch(context.Background(), 5, 0, func(int) { atomic.AddInt32(&calls, 1) })

	require.NoError(t, err)
	assert.Equal(t, int32(5), calls)
}
