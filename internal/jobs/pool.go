package jobs

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when all worker slots are occupied.
var ErrBusy = errors.New("all workers busy")

// Pool bounds the number of concurrently running jobs. Capacity is
// reserved before a job record exists, so a rejected submission leaves
// no trace.
type Pool struct {
	sem    *semaphore.Weighted
	size   int64
	base   context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool with the given number of worker slots.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 4
	}
	base, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		size:   int64(size),
		base:   base,
		cancel: cancel,
	}
}

// TryReserve claims a worker slot without blocking.
func (p *Pool) TryReserve() error {
	if p.base.Err() != nil {
		return ErrBusy
	}
	if !p.sem.TryAcquire(1) {
		return ErrBusy
	}
	return nil
}

// Release returns a previously reserved slot.
func (p *Pool) Release() {
	p.sem.Release(1)
}

// BaseContext returns the context jobs run under. It is cancelled
// when the pool shuts down.
func (p *Pool) BaseContext() context.Context {
	return p.base
}

// Shutdown cancels running jobs and waits for all slots to drain,
// or until ctx expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.cancel()
	if err := p.sem.Acquire(ctx, p.size); err != nil {
		return err
	}
	p.sem.Release(p.size)
	return nil
}
