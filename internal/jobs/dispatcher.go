package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ahofmann/scriptroom/internal/completion"
	"github.com/ahofmann/scriptroom/internal/conversation"
	"github.com/ahofmann/scriptroom/internal/metrics"
)

// Options configures conversation runs launched by the dispatcher.
type Options struct {
	Roster         *conversation.Roster
	MaxRounds      int
	MaxAutoReplies int
	TurnTimeout    time.Duration
}

// Dispatcher accepts script requests and runs each conversation in a
// background goroutine bounded by the worker pool.
type Dispatcher struct {
	store   *Store
	pool    *Pool
	factory completion.Factory
	opts    Options
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher. The metrics collector may be nil.
func NewDispatcher(store *Store, pool *Pool, factory completion.Factory, opts Options, collector *metrics.Collector, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Roster == nil {
		opts.Roster = conversation.DefaultRoster()
	}
	return &Dispatcher{
		store:   store,
		pool:    pool,
		factory: factory,
		opts:    opts,
		metrics: collector,
		logger:  logger,
	}
}

// Submit registers a new job and starts its conversation in the
// background. Returns ErrBusy when no worker slot is free. The
// returned id is resolvable via the store before Submit returns.
func (d *Dispatcher) Submit(ctx context.Context, topic, style, apiKey string) (string, error) {
	if err := d.pool.TryReserve(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	if _, err := d.store.Create(ctx, id, topic, style); err != nil {
		d.pool.Release()
		return "", err
	}

	go d.run(id, topic, style, apiKey)
	return id, nil
}

func (d *Dispatcher) run(id, topic, style, apiKey string) {
	defer d.pool.Release()

	// Jobs outlive the submitting request; they stop only when the
	// pool itself shuts down.
	ctx := d.pool.BaseContext()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("job goroutine panicked", "job_id", id, "panic", r)
			_ = d.store.Fail(context.Background(), id, fmt.Sprintf("internal panic: %v", r), 0)
		}
	}()

	started := time.Now()

	completer, err := d.factory.NewCompleter(apiKey)
	if err != nil {
		_ = d.store.Fail(ctx, id, err.Error(), 0)
		return
	}

	orch := conversation.New(d.opts.Roster, completer, conversation.Params{
		MaxRounds:      d.opts.MaxRounds,
		MaxAutoReplies: d.opts.MaxAutoReplies,
		TurnTimeout:    d.opts.TurnTimeout,
		Logger:         d.logger.With("job_id", id),
	})

	outcome, err := orch.Run(ctx, conversation.TaskMessage(topic, style))
	if d.metrics != nil {
		d.metrics.RecordTiming(metrics.OpConversation, time.Since(started))
	}
	if err != nil {
		_ = d.store.Fail(context.Background(), id, err.Error(), outcome.Rounds)
		return
	}

	_ = d.store.Complete(ctx, id, outcome.Result, outcome.Rounds)
}
