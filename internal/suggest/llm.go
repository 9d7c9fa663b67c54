package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMCompleter adapts a langchaingo model
type LLMCompleter struct {
	model llms.Model
	opts  []llms.CallOption
}

// NewLLMCompleter wraps model; opts are passed on every call
func NewLLMCompleter(model llms.Model, opts ...llms.CallOption) *LLMCompleter {
	return &LLMCompleter{model: model, opts: opts}
}

// NewOpenAICompleter connects to an OpenAI-compatible endpoint. An empty
// baseURL uses the OpenAI default.
func NewOpenAICompleter(model, baseURL, token string) (*LLMCompleter, error) {
	if token == "" {
		return nil, fmt.Errorf("openai api key not set")
	}

	opts := []openai.Option{
		openai.WithToken(token),
	}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
	}

	return NewLLMCompleter(client,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(2000),
	), nil
}

// Complete sends prompt as a single human message
func (c *LLMCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrUnexpectedResponse
	}
	return text, nil
}
