// Package jobs tracks script generation jobs through their lifecycle.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahofmann/scriptroom/internal/db"
	"github.com/ahofmann/scriptroom/internal/metrics"
)

// Status represents the state of a script generation job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrNotFound is returned when a job id is unknown.
var ErrNotFound = errors.New("job not found")

// Record holds the state of one script generation job.
type Record struct {
	ID          string
	Topic       string
	Style       string
	Status      Status
	Result      string
	Error       string
	Rounds      int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Store tracks job records in memory, optionally mirrored to SurrealDB.
// The in-memory map is the read authority; persistence failures are
// logged but never fail the job itself.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
	db      *db.Client
	metrics *metrics.Collector
	logger  *slog.Logger
	notify  func(id string, status Status)
}

// NewStore creates a job store. dbClient may be nil to disable persistence.
func NewStore(dbClient *db.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		records: make(map[string]*Record),
		db:      dbClient,
		logger:  logger,
	}
}

// SetNotify registers a hook invoked after every status change.
func (s *Store) SetNotify(fn func(id string, status Status)) {
	s.notify = fn
}

// SetMetrics registers a collector for persistence timings.
func (s *Store) SetMetrics(collector *metrics.Collector) {
	s.metrics = collector
}

// persist runs a db write and records its timing.
func (s *Store) persist(id, op string, fn func() error) {
	start := time.Now()
	err := fn()
	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpJobPersist, time.Since(start))
	}
	if err != nil {
		s.logger.Warn("failed to persist "+op, "job_id", id, "error", err)
	}
}

// Create registers a new job in the processing state.
func (s *Store) Create(ctx context.Context, id, topic, style string) (*Record, error) {
	rec := &Record{
		ID:        id,
		Topic:     topic,
		Style:     style,
		Status:    StatusProcessing,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	if _, exists := s.records[id]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("job %s already exists", id)
	}
	s.records[id] = rec
	s.mu.Unlock()

	if s.db != nil {
		s.persist(id, "job creation", func() error {
			return s.db.CreateScriptJob(ctx, id, topic, style, rec.CreatedAt)
		})
	}

	s.logger.Info("job created", "job_id", id, "topic", topic, "style", style)
	if s.notify != nil {
		s.notify(id, StatusProcessing)
	}
	return rec.snapshot(), nil
}

// Get returns a copy of the job record.
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.snapshot(), nil
}

// Complete transitions a job from processing to completed.
// A job may leave the processing state exactly once.
func (s *Store) Complete(ctx context.Context, id, result string, rounds int) error {
	now := time.Now()

	s.mu.Lock()
	rec, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if rec.Status != StatusProcessing {
		s.mu.Unlock()
		return fmt.Errorf("job %s already %s", id, rec.Status)
	}
	rec.Status = StatusCompleted
	rec.Result = result
	rec.Rounds = rounds
	rec.CompletedAt = &now
	s.mu.Unlock()

	if s.db != nil {
		s.persist(id, "job completion", func() error {
			return s.db.CompleteScriptJob(ctx, id, result, rounds, now)
		})
	}

	s.logger.Info("job completed", "job_id", id, "rounds", rounds)
	if s.notify != nil {
		s.notify(id, StatusCompleted)
	}
	return nil
}

// Fail transitions a job from processing to failed.
func (s *Store) Fail(ctx context.Context, id, errMsg string, rounds int) error {
	now := time.Now()

	s.mu.Lock()
	rec, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if rec.Status != StatusProcessing {
		s.mu.Unlock()
		return fmt.Errorf("job %s already %s", id, rec.Status)
	}
	rec.Status = StatusFailed
	rec.Error = errMsg
	rec.Rounds = rounds
	rec.CompletedAt = &now
	s.mu.Unlock()

	if s.db != nil {
		s.persist(id, "job failure", func() error {
			return s.db.FailScriptJob(ctx, id, errMsg, rounds, now)
		})
	}

	s.logger.Error("job failed", "job_id", id, "error", errMsg)
	if s.notify != nil {
		s.notify(id, StatusFailed)
	}
	return nil
}

func (r *Record) snapshot() *Record {
	cp := *r
	return &cp
}
