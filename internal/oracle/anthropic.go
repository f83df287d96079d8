package oracle

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/schema"

	"eventsort/pkg/utils"
)

// Client wraps a langchaingo model behind the extract.Oracle contract.
// One client is built at process start and shared for the process
// lifetime.
type Client struct {
	model llms.Model
}

func NewAnthropic(cfg utils.OracleConfig) (*Client, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(cfg.Model),
	}
	if cfg.APIKey != "" {
		opts = append(opts, anthropic.WithToken(cfg.APIKey))
	}

	model, err := anthropic.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}
	return &Client{model: model}, nil
}

// Complete sends a single user prompt and returns the model's text.
// No retries; transport errors go back to the caller.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeHuman, prompt),
		},
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return resp.Choices[0].Content, nil
}
