// Package openai adapts the OpenAI chat completions API to the generation
// Provider interface.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/rix-ai/research-rag/internal/generation"
)

const systemMessage = "You are an expert research assistant analyzing academic papers."

// Adapter serves OpenAI chat models. It performs exactly one API call per
// Generate; retries belong to generation.Client.
type Adapter struct {
	client *gopenai.Client
	models []string
}

// New creates an adapter for the given models.
func New(apiKey, baseURL string, models []string) (*Adapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai adapter: api key is required")
	}
	if len(models) == 0 {
		return nil, errors.New("openai adapter: at least one model is required")
	}
	cfg := gopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Adapter{
		client: gopenai.NewClientWithConfig(cfg),
		models: models,
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return "openai"
}

// Models lists the model ids this adapter serves.
func (a *Adapter) Models() []string {
	out := make([]string, len(a.models))
	copy(out, a.models)
	return out
}

// Generate performs one chat completion call.
func (a *Adapter) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	start := time.Now()

	resp, err := a.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: gopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, a.classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, generation.NewError(a.Name(), generation.KindUnavailable, "empty response from provider", nil)
	}

	return &generation.Result{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		FinishReason: string(resp.Choices[0].FinishReason),
		Latency:      time.Since(start),
	}, nil
}

// classify maps OpenAI API failures onto the generation error taxonomy.
func (a *Adapter) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return generation.NewError(a.Name(), generation.KindTimeout, "request timed out", err)
	}

	var apiErr *gopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return generation.NewError(a.Name(), generation.KindRateLimited, "rate limited", err)
		case apiErr.HTTPStatusCode == http.StatusUnauthorized,
			apiErr.HTTPStatusCode == http.StatusForbidden:
			return generation.NewError(a.Name(), generation.KindPermissionDenied, "permission denied", err)
		case apiErr.HTTPStatusCode == http.StatusBadRequest:
			return generation.NewError(a.Name(), generation.KindInvalidRequest, "invalid request", err)
		case apiErr.HTTPStatusCode >= 500:
			return generation.NewError(a.Name(), generation.KindUnavailable, "provider unavailable", err)
		}
	}

	return generation.NewError(a.Name(), generation.KindUnavailable, "request failed", err)
}
