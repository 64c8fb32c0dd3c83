package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahofmann/scriptroom/internal/config"
	"github.com/ahofmann/scriptroom/internal/conversation"
)

func TestRenderPrompt(t *testing.T) {
	prompt := renderPrompt([]conversation.Message{
		{SpeakerID: "showrunner", Content: "write a script", TurnIndex: 0},
		{SpeakerID: "script_writer", Content: "scene one; scene two", TurnIndex: 1},
	})

	assert.Contains(t, prompt, "showrunner: write a script")
	assert.Contains(t, prompt, "script_writer: scene one; scene two")
	assert.Contains(t, prompt, "Reply with your next message only.")
}

func TestTokenCount(t *testing.T) {
	info := map[string]any{
		"PromptTokens":     120,
		"CompletionTokens": int64(45),
		"OtherTokens":      33.0,
		"NotANumber":       "12",
	}

	assert.Equal(t, int64(120), tokenCount(info, "PromptTokens"))
	assert.Equal(t, int64(45), tokenCount(info, "CompletionTokens"))
	assert.Equal(t, int64(33), tokenCount(info, "OtherTokens"))
	assert.Equal(t, int64(0), tokenCount(info, "NotANumber"))
	assert.Equal(t, int64(0), tokenCount(info, "Missing"))
}

func TestNewFactoryUnsupportedProvider(t *testing.T) {
	cfg := config.Config{Provider: "mainframe"}

	_, err := NewFactory(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}

func TestLangchainFactoryRejectsUnknownProvider(t *testing.T) {
	f := NewLangchainFactory("mainframe", Params{Model: "gpt-4"}, "", nil, nil)

	_, err := f.NewCompleter("sk-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mainframe")
}
