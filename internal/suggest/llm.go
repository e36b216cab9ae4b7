package suggest

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMCompleter adapts a langchaingo model to Completer.
type LLMCompleter struct {
	model       llms.Model
	temperature float64
}

var _ Completer = (*LLMCompleter)(nil)

// NewLLMCompleter wraps model.
func NewLLMCompleter(model llms.Model) *LLMCompleter {
	return &LLMCompleter{model: model, temperature: 0.7}
}

// NewOpenAICompleter talks to an OpenAI-compatible chat endpoint. An empty
// baseURL uses the OpenAI default.
func NewOpenAICompleter(baseURL, apiKey, model string) (*LLMCompleter, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewLLMCompleter(llm), nil
}

// Complete sends prompt as a single user message and asks for JSON output.
func (c *LLMCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithJSONMode(),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate suggestions: %w", err)
	}
	return out, nil
}
