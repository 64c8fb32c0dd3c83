package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/ahofmann/scriptroom/internal/conversation"
	"github.com/ahofmann/scriptroom/internal/metrics"
)

// BedrockFactory builds completers backed by the Bedrock Converse API.
// Authentication comes from the ambient AWS credential chain, so the
// submitted API key is only syntax-checked upstream and ignored here.
type BedrockFactory struct {
	client  *bedrockruntime.Client
	params  Params
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewBedrockFactory creates a factory using the default AWS config chain.
func NewBedrockFactory(ctx context.Context, params Params, collector *metrics.Collector, logger *slog.Logger) (*BedrockFactory, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BedrockFactory{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		params:  params,
		metrics: collector,
		logger:  logger,
	}, nil
}

// NewCompleter implements Factory.
func (f *BedrockFactory) NewCompleter(_ string) (conversation.Completer, error) {
	return &bedrockCompleter{
		client:  f.client,
		params:  f.params,
		metrics: f.metrics,
		logger:  f.logger,
	}, nil
}

type bedrockCompleter struct {
	client  *bedrockruntime.Client
	params  Params
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Complete implements the completion port. Converse has no seed parameter;
// determinism relies on temperature 0 alone.
func (c *bedrockCompleter) Complete(ctx context.Context, directive string, transcript []conversation.Message) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.params.Model),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: directive},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: renderPrompt(transcript)},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(float32(c.params.Temperature)),
		},
	}

	start := time.Now()
	out, err := c.client.Converse(ctx, input)
	duration := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("bedrock converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected converse output type %T", out.Output)
	}

	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("converse response contained no text blocks")
	}

	if c.metrics != nil && out.Usage != nil {
		c.metrics.RecordCompletionUsage(duration,
			int64(aws.ToInt32(out.Usage.InputTokens)),
			int64(aws.ToInt32(out.Usage.OutputTokens)))
	}

	return b.String(), nil
}
