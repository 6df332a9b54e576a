package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avoronov/cellarsync/internal/logger"
)

// blockingWorker counts its starts and blocks until cancelled.
type blockingWorker struct {
	started atomic.Int32
}

func (w *blockingWorker) Start(ctx context.Context) {
	w.started.Add(1)
	<-ctx.Done()
}

func TestWorkers_Run_AllWorkersAreStarted(t *testing.T) {
	w1 := &blockingWorker{}
	w2 := &blockingWorker{}
	w3 := &blockingWorker{}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		New(w1, w2, w3).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return w1.started.Load() == 1 && w2.started.Load() == 1 && w3.started.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	// Must return immediately and not panic.
	New().Run(context.Background())
}

func TestPeriodic_RunsJobOnInterval(t *testing.T) {
	var runs atomic.Int32
	worker := NewPeriodic("test", 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Start(ctx)

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestPeriodic_StopsOnCancel(t *testing.T) {
	worker := NewPeriodic("test", time.Millisecond, func(context.Context) {}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
