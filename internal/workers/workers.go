package workers

import (
	"context"
	"sync"
	"time"

	"github.com/avoronov/cellarsync/internal/logger"
)

// Workers runs a set of background workers and waits for all of them.
type Workers struct {
	workers []Worker
}

// New aggregates the given workers.
func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker on its own goroutine and blocks until all of them
// return. Workers stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(len(w.workers))

	for _, worker := range w.workers {
		worker := worker
		go func() {
			defer wg.Done()
			worker.Start(ctx)
		}()
	}

	wg.Wait()
}

// Periodic runs a job on a fixed interval until its context is cancelled.
// The first run happens after one full interval, not at start.
type Periodic struct {
	name     string
	interval time.Duration
	job      func(ctx context.Context)
	logger   *logger.Logger
}

// NewPeriodic builds a ticker-driven worker around job.
func NewPeriodic(name string, interval time.Duration, job func(ctx context.Context), log *logger.Logger) *Periodic {
	return &Periodic{
		name:     name,
		interval: interval,
		job:      job,
		logger:   log,
	}
}

// Start runs the job loop. Implements [Worker].
func (p *Periodic) Start(ctx context.Context) {
	p.logger.Info().Str("worker", p.name).Dur("interval", p.interval).Msg("periodic worker started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Str("worker", p.name).Msg("periodic worker stopped")
			return
		case <-ticker.C:
			p.job(ctx)
		}
	}
}
