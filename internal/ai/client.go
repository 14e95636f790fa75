package ai

import (
	"context"
	"log/slog"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4-turbo"

var ErrEmptyCompletion = errors.NewSentinel("completion has no choices")

// Client sends chat completions to an OpenAI compatible API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a client. An empty baseURL uses the public OpenAI API and an empty model uses DefaultModel.
func NewClient(apiKey string, baseURL string, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Complete sends prompt as a user message and returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return c.Chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt}, //nolint:exhaustruct // plain text message
	}, maxTokens)
}

// Chat sends a conversation and returns the content of the first choice.
func (c *Client) Chat(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: maxTokens,
			Messages:  messages,
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion", slog.String("model", c.model))
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrEmptyCompletion, "create chat completion", slog.String("model", c.model))
	}
	return completion.Choices[0].Message.Content, nil
}
