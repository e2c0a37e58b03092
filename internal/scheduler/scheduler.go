// Package scheduler runs periodic refresh jobs.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bobmcallan/cryptodash/internal/common"
)

// Job is one periodic refresh.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Refresher runs a Job now and then on every tick until stopped.
// With coalescing on, a tick is skipped while the previous run is in flight.
type Refresher struct {
	job      Job
	interval time.Duration
	coalesce bool
	logger   *common.Logger

	running  atomic.Bool
	inflight sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	runs    atomic.Int64
	skipped atomic.Int64
}

// NewRefresher creates a stopped Refresher. A non-positive interval uses 60s.
func NewRefresher(job Job, interval time.Duration, coalesce bool, logger *common.Logger) *Refresher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Refresher{
		job:      job,
		interval: interval,
		coalesce: coalesce,
		logger:   logger,
	}
}

// Start runs the job immediately and then every interval. Calling Start on a
// running Refresher does nothing.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	// Runs outlive Stop; the request timeout bounds them.
	runCtx := context.WithoutCancel(ctx)

	r.logger.Info().Str("job", r.job.Name).Dur("interval", r.interval).Bool("coalesce", r.coalesce).Msg("Refresh scheduler: started")
	r.dispatch(runCtx)

	go r.loop(loopCtx, runCtx, r.done)
}

func (r *Refresher) loop(ctx, runCtx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Str("job", r.job.Name).Msg("Refresh scheduler: stopped")
			return
		case <-ticker.C:
			r.dispatch(runCtx)
		}
	}
}

// dispatch starts a scheduled run unless coalescing skips it.
// The running flag is only kept while coalescing; overlapping runs never touch it.
func (r *Refresher) dispatch(ctx context.Context) {
	if r.coalesce && !r.running.CompareAndSwap(false, true) {
		r.skipped.Add(1)
		r.logger.Debug().Str("job", r.job.Name).Msg("Refresh scheduler: previous run in flight, tick skipped")
		return
	}
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		if r.coalesce {
			defer r.running.Store(false)
		}
		r.execute(ctx)
	}()
}

func (r *Refresher) execute(ctx context.Context) error {
	start := time.Now()
	r.runs.Add(1)
	if err := r.job.Run(ctx); err != nil {
		r.logger.Warn().Err(err).Str("job", r.job.Name).Dur("elapsed", time.Since(start)).Msg("Refresh scheduler: run failed")
		return err
	}
	r.logger.Debug().Str("job", r.job.Name).Dur("elapsed", time.Since(start)).Msg("Refresh scheduler: run complete")
	return nil
}

// RunNow runs the job synchronously, regardless of any scheduled run in flight.
func (r *Refresher) RunNow(ctx context.Context) error {
	return r.execute(ctx)
}

// Stop halts the ticker. In-flight runs are not cancelled; use Wait for them.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until every scheduled run has returned.
func (r *Refresher) Wait() {
	r.inflight.Wait()
}

// Runs reports how many times the job has executed.
func (r *Refresher) Runs() int64 {
	return r.runs.Load()
}

// Skipped reports how many ticks were coalesced away.
func (r *Refresher) Skipped() int64 {
	return r.skipped.Load()
}

// Group starts and stops several Refreshers together.
type Group struct {
	refreshers []*Refresher
}

// NewGroup builds one Refresher per job with a shared policy.
func NewGroup(jobs []Job, interval time.Duration, coalesce bool, logger *common.Logger) *Group {
	g := &Group{}
	for _, j := range jobs {
		g.refreshers = append(g.refreshers, NewRefresher(j, interval, coalesce, logger))
	}
	return g
}

func (g *Group) Start(ctx context.Context) {
	for _, r := range g.refreshers {
		r.Start(ctx)
	}
}

// Stop halts every ticker and waits for in-flight runs.
func (g *Group) Stop() {
	for _, r := range g.refreshers {
		r.Stop()
	}
	for _, r := range g.refreshers {
		r.Wait()
	}
}

// Refresher returns the Refresher for the named job, or nil.
func (g *Group) Refresher(name string) *Refresher {
	for _, r := range g.refreshers {
		if r.job.Name == name {
			return r
		}
	}
	return nil
}
