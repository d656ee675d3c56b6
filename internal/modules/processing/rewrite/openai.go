package rewrite

import (
	"context"
	"errors"
	"strings"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/reconhq/recon-core/internal/config"
)

const defaultOpenAIModel = "gpt-4o-mini"

type openAIClient struct {
	client openaiclient.Client
	model  string
}

func newOpenAIClient(cfg config.AIProvider) *openAIClient {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		openaioption.WithMaxRetries(0),
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, openaioption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openAIClient{
		client: openaiclient.NewClient(opts...),
		model:  model,
	}
}

func (c *openAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openaiclient.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, openaiclient.SystemMessage(systemPrompt))
	}
	messages = append(messages, openaiclient.UserMessage(userPrompt))

	resp, err := c.client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model:    openaiclient.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("empty response from rewrite provider")
	}
	return resp.Choices[0].Message.Content, nil
}
