package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spec-kit/support-intake/internal/config"
)

// TextGenerator is the single-shot prompt-in/text-out boundary. The
// returned text carries no schema guarantee; callers parse defensively.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAI implements TextGenerator over the Chat Completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a generator from config. Returns nil without error
// when no API key is configured; callers treat a nil generator as a
// permanently failing one.
func NewOpenAI(cfg config.AIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	c := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &OpenAI{client: &c, model: cfg.Model}, nil
}

// Generate sends the prompt and returns the first choice's content.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if o == nil || o.client == nil {
		return "", errors.New("text generation not configured")
	}

	response, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: o.model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return response.Choices[0].Message.Content, nil
}
