package rewrite

import (
	"context"
	"errors"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/reconhq/recon-core/internal/config"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

type anthropicClient struct {
	client anthropicclient.Client
	model  string
}

func newAnthropicClient(cfg config.AIProvider) *anthropicClient {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		anthropicoption.WithMaxRetries(0),
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultAnthropicModel
	}

	return &anthropicClient{
		client: anthropicclient.NewClient(opts...),
		model:  model,
	}
}

func (c *anthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropicclient.MessageNewParams{
		Model:     anthropicclient.Model(c.model),
		MaxTokens: 4096,
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(userPrompt)),
		},
	}
	if strings.TrimSpace(systemPrompt) != "" {
		params.System = []anthropicclient.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			full.WriteString(block.Text)
		}
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from rewrite provider")
	}
	return text, nil
}
