// Package generation wraps calls to generative model providers with retry,
// timeout, and token-based cost accounting.
package generation

import (
	"context"
	"time"
)

// Request is a unified generation request.
type Request struct {
	// Model identifier (e.g. "gpt-3.5-turbo").
	Model string

	// Prompt is the fully assembled prompt text.
	Prompt string

	// MaxTokens caps the generated output length.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float32
}

// Result is a unified generation response.
type Result struct {
	// Text is the generated answer.
	Text string

	// InputTokens and OutputTokens report provider token usage.
	InputTokens  int
	OutputTokens int

	// FinishReason indicates why generation stopped ("stop", "length", ...).
	FinishReason string

	// Latency of the underlying provider call.
	Latency time.Duration
}

// Provider is one generative model backend. Implementations perform a single
// call per Generate invocation; retries live in the Client.
type Provider interface {
	// Name returns the provider name (e.g. "openai", "stub").
	Name() string

	// Generate performs one completion request.
	Generate(ctx context.Context, req Request) (*Result, error)

	// Models lists the model ids this provider serves.
	Models() []string
}
