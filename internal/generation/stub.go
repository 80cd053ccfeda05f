package generation

import (
	"context"
	"fmt"
	"time"
)

// StubModel is the model id served by the stub provider.
const StubModel = "stub-demo"

// StubProvider returns a canned answer without any network call. It keeps
// the service runnable without API keys (demo/search-only mode).
type StubProvider struct{}

// NewStubProvider creates the demo provider.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// Name returns the provider name.
func (s *StubProvider) Name() string {
	return "stub"
}

// Models lists the stub model id.
func (s *StubProvider) Models() []string {
	return []string{StubModel}
}

// Generate echoes a fixed summary of the prompt. Token counts use the
// rough 4-characters-per-token estimate so cost accounting stays exercised.
func (s *StubProvider) Generate(_ context.Context, req Request) (*Result, error) {
	text := fmt.Sprintf(
		"Based on the retrieved papers, the corpus contains relevant recent work on this topic. "+
			"(Demo answer; configure a generation provider for contextual responses. Prompt was %d characters.)",
		len(req.Prompt))

	return &Result{
		Text:         text,
		InputTokens:  len(req.Prompt) / 4,
		OutputTokens: len(text) / 4,
		FinishReason: "stop",
		Latency:      time.Millisecond,
	}, nil
}

var _ Provider = (*StubProvider)(nil)
