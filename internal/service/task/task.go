// Package task runs simulated timed jobs with a single-flight guard.
package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when a job is already running on the Runner.
var ErrBusy = errors.New("task already running")

// Runner runs at most one timed job at a time. The zero value is ready to use.
type Runner struct {
	busy atomic.Bool

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Busy reports whether a job is in flight.
func (r *Runner) Busy() bool { return r.busy.Load() }

// Run blocks for d, until ctx is done, or until Cancel is called.
// It returns nil when the delay elapsed and ctx.Err() otherwise.
func (r *Runner) Run(ctx context.Context, d time.Duration) error {
	done, err := r.Start(ctx, d)
	if err != nil {
		return err
	}
	return <-done
}

// Start claims the runner and begins the job without blocking. The busy flag
// is released before the result is delivered on the returned channel.
func (r *Runner) Start(ctx context.Context, d time.Duration) (<-chan error, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.cancel = cancel
	r.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		err := Wait(ctx, d)
		cancel()
		r.release(gen)
		done <- err
	}()
	return done, nil
}

func (r *Runner) release(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// a Cancel followed by a new Start owns the flag now
	if r.gen == gen {
		r.cancel = nil
		r.busy.Store(false)
	}
}

// Cancel aborts the running job and releases the busy flag immediately.
// It reports whether a job was running.
func (r *Runner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return false
	}
	r.cancel()
	r.cancel = nil
	r.gen++
	r.busy.Store(false)
	return true
}

// Wait blocks for d or until ctx is canceled.
//
// It returns nil if the duration elapses, or ctx.Err() if the context
// is done first. If d <= 0, it returns immediately.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
