package metrics

import (
	"testing"
	"time"
)

func TestRecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpConversation, 100*time.Millisecond)
	c.RecordTiming(OpConversation, 300*time.Millisecond)

	snap := c.Snapshot()
	if snap.Conversation == nil {
		t.Fatal("expected conversation snapshot")
	}
	if snap.Conversation.Count != 2 {
		t.Errorf("expected count 2, got %d", snap.Conversation.Count)
	}
	if snap.Conversation.MinTimeMs != 100 {
		t.Errorf("expected min 100ms, got %d", snap.Conversation.MinTimeMs)
	}
	if snap.Conversation.MaxTimeMs != 300 {
		t.Errorf("expected max 300ms, got %d", snap.Conversation.MaxTimeMs)
	}
	if snap.Conversation.AvgTimeMs != 200 {
		t.Errorf("expected avg 200ms, got %f", snap.Conversation.AvgTimeMs)
	}
}

func TestRecordCompletionUsage(t *testing.T) {
	c := NewCollector()

	c.RecordCompletionUsage(50*time.Millisecond, 120, 40)
	c.RecordCompletionUsage(150*time.Millisecond, 80, 60)

	snap := c.Snapshot()
	if snap.Completion == nil {
		t.Fatal("expected completion snapshot")
	}
	if snap.Completion.Count != 2 {
		t.Errorf("expected count 2, got %d", snap.Completion.Count)
	}
	if snap.Completion.TotalInputTokens == nil || *snap.Completion.TotalInputTokens != 200 {
		t.Errorf("expected 200 input tokens, got %v", snap.Completion.TotalInputTokens)
	}
	if snap.Completion.TotalOutputTokens == nil || *snap.Completion.TotalOutputTokens != 100 {
		t.Errorf("expected 100 output tokens, got %v", snap.Completion.TotalOutputTokens)
	}
	if snap.Completion.MinInputTokens == nil || *snap.Completion.MinInputTokens != 80 {
		t.Errorf("expected min input 80, got %v", snap.Completion.MinInputTokens)
	}
	if snap.Completion.MaxOutputTokens == nil || *snap.Completion.MaxOutputTokens != 60 {
		t.Errorf("expected max output 60, got %v", snap.Completion.MaxOutputTokens)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	c := NewCollector()

	snap := c.Snapshot()
	if snap.Completion != nil || snap.Conversation != nil || snap.JobPersist != nil {
		t.Error("empty collector should produce nil operation snapshots")
	}
	if snap.UptimeSeconds < 0 {
		t.Errorf("uptime should be non-negative, got %f", snap.UptimeSeconds)
	}
}
