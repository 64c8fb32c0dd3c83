package completion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahofmann/scriptroom/internal/config"
	"github.com/ahofmann/scriptroom/internal/conversation"
	"github.com/ahofmann/scriptroom/internal/metrics"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainFactory builds completers backed by langchaingo providers.
type LangchainFactory struct {
	provider   string
	params     Params
	ollamaHost string
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// NewLangchainFactory creates a factory for the given langchaingo provider.
func NewLangchainFactory(provider string, params Params, ollamaHost string, collector *metrics.Collector, logger *slog.Logger) *LangchainFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &LangchainFactory{
		provider:   provider,
		params:     params,
		ollamaHost: ollamaHost,
		metrics:    collector,
		logger:     logger,
	}
}

// NewCompleter implements Factory. OpenAI and Anthropic take the submitted
// key as the bearer token; Ollama authenticates ambiently.
func (f *LangchainFactory) NewCompleter(apiKey string) (conversation.Completer, error) {
	var model llms.Model
	var err error

	switch f.provider {
	case config.ProviderOpenAI:
		model, err = openai.New(
			openai.WithToken(apiKey),
			openai.WithModel(f.params.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		model, err = anthropic.New(
			anthropic.WithToken(apiKey),
			anthropic.WithModel(f.params.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(f.params.Model),
			ollama.WithServerURL(f.ollamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported langchain provider: %s", f.provider)
	}

	return &langchainCompleter{
		llm:     model,
		params:  f.params,
		metrics: f.metrics,
		logger:  f.logger,
	}, nil
}

// langchainCompleter produces one participant message per call.
type langchainCompleter struct {
	llm     llms.Model
	params  Params
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Complete implements the completion port.
func (c *langchainCompleter) Complete(ctx context.Context, directive string, transcript []conversation.Message) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, directive),
		llms.TextParts(llms.ChatMessageTypeHuman, renderPrompt(transcript)),
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithModel(c.params.Model),
		llms.WithTemperature(c.params.Temperature),
		llms.WithSeed(c.params.Seed),
	)
	duration := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	choice := resp.Choices[0]

	if c.metrics != nil {
		in := tokenCount(choice.GenerationInfo, "PromptTokens")
		out := tokenCount(choice.GenerationInfo, "CompletionTokens")
		c.metrics.RecordCompletionUsage(duration, in, out)
	}

	return choice.Content, nil
}

// tokenCount pulls a usage number out of provider-specific generation info.
func tokenCount(info map[string]any, key string) int64 {
	switch v := info[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}
