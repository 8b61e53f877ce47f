// Package collector triggers forecast refreshes at startup and on a fixed interval.
package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refreshable is anything that reloads its forecast on demand
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher calls Refresh once immediately and then every interval
type Refresher struct {
	target       Refreshable
	interval     time.Duration
	fetchTimeout time.Duration
	cron         *cron.Cron

	mu   sync.Mutex
	runs int
	errs int
}

// NewRefresher creates a refresher for target
func NewRefresher(target Refreshable, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		target:       target,
		interval:     interval,
		fetchTimeout: 30 * time.Second,
		cron:         cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// SetFetchTimeout changes the timeout applied to each refresh
func (r *Refresher) SetFetchTimeout(timeout time.Duration) {
	r.fetchTimeout = timeout
}

// Interval returns the refresh interval
func (r *Refresher) Interval() time.Duration { return r.interval }

// Start runs the first refresh synchronously and schedules the rest.
// The returned function stops the schedule and waits for a running refresh.
func (r *Refresher) Start(ctx context.Context) func() {
	runCtx, cancel := context.WithCancel(ctx)

	r.refreshOnce(runCtx)
	r.cron.Schedule(cron.Every(r.interval), cron.FuncJob(func() { r.refreshOnce(runCtx) }))
	r.cron.Start()

	slog.Info("forecast refresher started", "interval", r.interval)
	return func() {
		cancel()
		<-r.cron.Stop().Done()
	}
}

// Stats returns how many refreshes ran and how many of them failed
func (r *Refresher) Stats() (runs, errs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs, r.errs
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	err := r.target.Refresh(fetchCtx)

	r.mu.Lock()
	r.runs++
	if err != nil {
		r.errs++
	}
	r.mu.Unlock()

	if err != nil {
		slog.Warn("forecast refresh failed", "error", err)
	}
}
