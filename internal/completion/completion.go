// Package completion implements the completion port over external
// text-generation providers using langchaingo and the Bedrock Converse API.
package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahofmann/scriptroom/internal/config"
	"github.com/ahofmann/scriptroom/internal/conversation"
	"github.com/ahofmann/scriptroom/internal/metrics"
)

// Params are the generation parameters fixed per conversation. They are not
// tunable by the client beyond the initiating request.
type Params struct {
	Model       string
	Temperature float64
	Seed        int
}

// Factory builds a Completer bound to one submission's API key. Providers
// that authenticate ambiently (Ollama, Bedrock) ignore the key; its syntax
// was already checked at submission time.
type Factory interface {
	NewCompleter(apiKey string) (conversation.Completer, error)
}

// NewFactory creates the factory for the configured provider.
func NewFactory(ctx context.Context, cfg config.Config, collector *metrics.Collector, logger *slog.Logger) (Factory, error) {
	params := Params{
		Model:       cfg.Model,
		Temperature: 0, // maximal determinism
		Seed:        cfg.Seed,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderAnthropic, config.ProviderOllama:
		return NewLangchainFactory(cfg.Provider, params, cfg.OllamaHost, collector, logger), nil
	case config.ProviderBedrock:
		return NewBedrockFactory(ctx, params, collector, logger)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}

// renderPrompt flattens the transcript into the user prompt for one turn.
// The speaker's persona arrives separately as the system instruction.
func renderPrompt(transcript []conversation.Message) string {
	var b strings.Builder
	b.WriteString("Conversation so far:\n\n")
	for _, msg := range transcript {
		b.WriteString(msg.SpeakerID)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("Reply with your next message only.")
	return b.String()
}
