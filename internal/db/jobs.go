package db

import (
	"context"
	"time"

	"github.com/surrealdb/surrealdb.go"
)

// ScriptJob is the persisted form of a job record.
type ScriptJob struct {
	Topic       string     `json:"topic"`
	Style       string     `json:"style"`
	Status      string     `json:"status"`
	Result      *string    `json:"result,omitempty"`
	Error       *string    `json:"error,omitempty"`
	Rounds      int        `json:"rounds"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CreateScriptJob inserts a new job record in the processing state.
func (c *Client) CreateScriptJob(ctx context.Context, id, topic, style string, createdAt time.Time) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE type::record("script_job", $id) SET
			topic = $topic,
			style = $style,
			status = "processing",
			rounds = 0,
			created_at = <datetime>$created_at
	`, map[string]any{
		"id":         id,
		"topic":      topic,
		"style":      style,
		"created_at": createdAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return wrapQueryError("create script job", err)
	}
	return nil
}

// CompleteScriptJob marks a job as completed with its result.
func (c *Client) CompleteScriptJob(ctx context.Context, id, result string, rounds int, completedAt time.Time) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("script_job", $id) SET
			status = "completed",
			result = $result,
			rounds = $rounds,
			completed_at = <datetime>$completed_at
	`, map[string]any{
		"id":           id,
		"result":       result,
		"rounds":       rounds,
		"completed_at": completedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return wrapQueryError("complete script job", err)
	}
	return nil
}

// FailScriptJob marks a job as failed with its error message.
func (c *Client) FailScriptJob(ctx context.Context, id, errMsg string, rounds int, completedAt time.Time) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("script_job", $id) SET
			status = "failed",
			error = $error,
			rounds = $rounds,
			completed_at = <datetime>$completed_at
	`, map[string]any{
		"id":           id,
		"error":        errMsg,
		"rounds":       rounds,
		"completed_at": completedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return wrapQueryError("fail script job", err)
	}
	return nil
}

// GetScriptJob retrieves a persisted job record by id.
func (c *Client) GetScriptJob(ctx context.Context, id string) (*ScriptJob, error) {
	results, err := surrealdb.Query[[]ScriptJob](ctx, c.db, `
		SELECT * FROM type::record("script_job", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, wrapQueryError("get script job", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}
