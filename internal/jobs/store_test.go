package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateAndGet(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	rec, err := s.Create(ctx, "job-1", "space", "documentary")
	require.NoError(t, err)
	assert.Equal(t, "job-1", rec.ID)
	assert.Equal(t, StatusProcessing, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, "space", got.Topic)
	assert.Equal(t, "documentary", got.Style)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Empty(t, got.Result)
	assert.Nil(t, got.CompletedAt)
}

func TestStoreGetUnknown(t *testing.T) {
	s := NewStore(nil, nil)

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDuplicateCreate(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, "dup", "a", "b")
	require.NoError(t, err)

	_, err = s.Create(ctx, "dup", "c", "d")
	assert.Error(t, err)
}

func TestStoreComplete(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, "job-1", "space", "documentary")
	require.NoError(t, err)

	require.NoError(t, s.Complete(ctx, "job-1", "Scene 1; Scene 2", 4))

	got, err := s.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "Scene 1; Scene 2", got.Result)
	assert.Equal(t, 4, got.Rounds)
	require.NotNil(t, got.CompletedAt)
}

func TestStoreFail(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, "job-1", "space", "documentary")
	require.NoError(t, err)

	require.NoError(t, s.Fail(ctx, "job-1", "completion timeout", 2))

	got, err := s.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "completion timeout", got.Error)
	assert.Empty(t, got.Result)
}

func TestStoreSingleTransition(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, "job-1", "space", "documentary")
	require.NoError(t, err)
	require.NoError(t, s.Complete(ctx, "job-1", "done", 3))

	assert.Error(t, s.Complete(ctx, "job-1", "again", 5))
	assert.Error(t, s.Fail(ctx, "job-1", "late failure", 5))

	// First outcome survives
	got, err := s.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "done", got.Result)
	assert.Equal(t, 3, got.Rounds)
}

func TestStoreCompleteUnknown(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, s.Complete(ctx, "nope", "r", 1), ErrNotFound)
	assert.ErrorIs(t, s.Fail(ctx, "nope", "e", 1), ErrNotFound)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, "job-1", "space", "documentary")
	require.NoError(t, err)

	got, err := s.Get("job-1")
	require.NoError(t, err)
	got.Status = StatusFailed
	got.Result = "tampered"

	fresh, err := s.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, fresh.Status)
	assert.Empty(t, fresh.Result)
}

func TestStoreNotify(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	var ids []string
	var statuses []Status
	s.SetNotify(func(id string, status Status) {
		ids = append(ids, id)
		statuses = append(statuses, status)
	})

	_, err := s.Create(ctx, "job-1", "space", "documentary")
	require.NoError(t, err)
	require.NoError(t, s.Complete(ctx, "job-1", "done", 2))

	assert.Equal(t, []string{"job-1", "job-1"}, ids)
	assert.Equal(t, []Status{StatusProcessing, StatusCompleted}, statuses)
}
