package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptAppendAssignsIncreasingTurnIndexes(t *testing.T) {
	tr := NewTranscript()

	first, err := tr.Append("showrunner", "task")
	require.NoError(t, err)
	second, err := tr.Append("script_writer", "draft")
	require.NoError(t, err)

	assert.Equal(t, 0, first.TurnIndex)
	assert.Equal(t, 1, second.TurnIndex)
	assert.Equal(t, 2, tr.Len())
}

func TestTranscriptRejectsEmptyContent(t *testing.T) {
	tr := NewTranscript()

	_, err := tr.Append("script_writer", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, tr.Len())
}

func TestTranscriptMessagesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	_, err := tr.Append("showrunner", "task")
	require.NoError(t, err)

	msgs := tr.Messages()
	msgs[0].Content = "mutated"

	again := tr.Messages()
	assert.Equal(t, "task", again[0].Content)
}

func TestTranscriptLast(t *testing.T) {
	tr := NewTranscript()

	_, ok := tr.Last()
	assert.False(t, ok)

	_, err := tr.Append("showrunner", "task")
	require.NoError(t, err)
	_, err = tr.Append("content_editor", "notes")
	require.NoError(t, err)

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "content_editor", last.SpeakerID)
	assert.Equal(t, 1, last.TurnIndex)
}
