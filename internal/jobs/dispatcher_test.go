package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/logger"
)

type jobFunc func(ctx context.Context, task *core.AnalysisTask) error

func (f jobFunc) Run(ctx context.Context, task *core.AnalysisTask) error { return f(ctx, task) }

func TestDispatcher_RunsTasks(t *testing.T) {
	var mu sync.Mutex
	seen := map[int64]bool{}
	job := jobFunc(func(_ context.Context, task *core.AnalysisTask) error {
		mu.Lock()
		seen[task.JobID] = true
		mu.Unlock()
		return nil
	})

	d := NewDispatcher(context.Background(), job, DispatcherConfig{MaxWorkers: 3, QueueSize: 10}, logger.Discard())
	for i := int64(1); i <= 10; i++ {
		require.NoError(t, d.Dispatch(context.Background(), &core.AnalysisTask{JobID: i}))
	}
	d.Stop()

	assert.Len(t, seen, 10)
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	job := jobFunc(func(context.Context, *core.AnalysisTask) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return nil
	})

	d := NewDispatcher(context.Background(), job, DispatcherConfig{MaxWorkers: 2, QueueSize: 20}, logger.Discard())
	for i := range 20 {
		require.NoError(t, d.Dispatch(context.Background(), &core.AnalysisTask{JobID: int64(i)}))
	}
	d.Stop()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestDispatcher_QueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	job := jobFunc(func(context.Context, *core.AnalysisTask) error {
		started <- struct{}{}
		<-release
		return nil
	})

	d := NewDispatcher(context.Background(), job, DispatcherConfig{MaxWorkers: 1, QueueSize: 1}, logger.Discard())
	require.NoError(t, d.Dispatch(context.Background(), &core.AnalysisTask{JobID: 1}))
	<-started
	require.NoError(t, d.Dispatch(context.Background(), &core.AnalysisTask{JobID: 2}))

	err := d.Dispatch(context.Background(), &core.AnalysisTask{JobID: 3})
	assert.ErrorIs(t, err, core.ErrQueueFull)

	close(release)
	d.Stop()
}

func TestDispatcher_StopIsIdempotentAndRejectsNewWork(t *testing.T) {
	d := NewDispatcher(context.Background(), jobFunc(func(context.Context, *core.AnalysisTask) error { return nil }),
		DispatcherConfig{}, logger.Discard())
	d.Stop()
	d.Stop()

	err := d.Dispatch(context.Background(), &core.AnalysisTask{JobID: 1})
	assert.ErrorIs(t, err, ErrDispatcherStopped)
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	var ran atomic.Int32
	job := jobFunc(func(_ context.Context, task *core.AnalysisTask) error {
		ran.Add(1)
		if task.JobID == 1 {
			panic("boom")
		}
		return nil
	})

	d := NewDispatcher(context.Background(), job, DispatcherConfig{MaxWorkers: 1, QueueSize: 2}, logger.Discard())
	require.NoError(t, d.Dispatch(context.Background(), &core.AnalysisTask{JobID: 1}))
	require.NoError(t, d.Dispatch(context.Background(), &core.AnalysisTask{JobID: 2}))
	d.Stop()

	assert.EqualValues(t, 2, ran.Load())
}
