// Package jobs holds small background workers.
package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher periodically invokes a task on a fixed interval. There is no
// retry on failure; the next tick re-invokes the task anyway.
type Refresher struct {
	name     string
	interval time.Duration
	run      func(context.Context) error
	logger   *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewRefresher builds a refresher around the provided task.
func NewRefresher(name string, interval time.Duration, run func(context.Context) error, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{name: name, interval: interval, run: run, logger: logger}
}

// Start launches the ticker loop. Safe to call once.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop()
	r.started = true
	r.logger.Sugar().Infow("refresher started", "name", r.name, "interval", r.interval)
}

// Stop cancels the loop and waits for it to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Sugar().Infow("refresher stopped", "name", r.name)
}

func (r *Refresher) loop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.run(r.ctx); err != nil {
				r.logger.Sugar().Warnw("refresh failed", "name", r.name, "error", err)
			}
		}
	}
}
