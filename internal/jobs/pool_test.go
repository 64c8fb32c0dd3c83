package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoolReserveAndRelease(t *testing.T) {
	p := NewPool(2)

	if err := p.TryReserve(); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	if err := p.TryReserve(); err != nil {
		t.Fatalf("second reserve failed: %v", err)
	}
	if err := p.TryReserve(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy when full, got %v", err)
	}

	p.Release()
	if err := p.TryReserve(); err != nil {
		t.Fatalf("reserve after release failed: %v", err)
	}
}

func TestPoolDefaultSize(t *testing.T) {
	p := NewPool(0)

	for i := 0; i < 4; i++ {
		if err := p.TryReserve(); err != nil {
			t.Fatalf("reserve %d failed: %v", i, err)
		}
	}
	if err := p.TryReserve(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy past default size, got %v", err)
	}
}

func TestPoolShutdownCancelsBaseContext(t *testing.T) {
	p := NewPool(1)

	base := p.BaseContext()
	if base.Err() != nil {
		t.Fatal("base context should start uncancelled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !errors.Is(base.Err(), context.Canceled) {
		t.Fatalf("base context should be cancelled after shutdown, got %v", base.Err())
	}
}

func TestPoolShutdownWaitsForWorkers(t *testing.T) {
	p := NewPool(1)

	if err := p.TryReserve(); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	released := make(chan struct{})
	go func() {
		<-p.BaseContext().Done()
		time.Sleep(20 * time.Millisecond)
		p.Release()
		close(released)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-released:
	default:
		t.Fatal("shutdown returned before the worker released its slot")
	}
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p := NewPool(2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if err := p.TryReserve(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy after shutdown, got %v", err)
	}
}
