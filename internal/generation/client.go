package generation

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryConfig bounds the retry state machine.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the backoff before the second attempt; it doubles per
	// attempt up to MaxDelay.
	BaseDelay time.Duration

	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration

	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration
}

// DefaultRetryConfig mirrors the provider defaults used across the service.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		CallTimeout: 30 * time.Second,
	}
}

// Outcome is the accounted result of a generation call: the text plus token
// usage, cost, attempts, and wall-clock latency across every attempt.
type Outcome struct {
	Text         string
	Model        string
	Provider     string
	FinishReason string
	InputTokens  int
	OutputTokens int
	InputCost    float64
	OutputCost   float64
	Cost         float64
	CostUnknown  bool
	Attempts     int
	Latency      time.Duration
}

// Client resolves the provider for a model and executes the call with
// retry and backoff. Only transient failures are retried; permanent ones
// propagate after the first attempt.
type Client struct {
	registry *Registry
	prices   PriceTable
	retry    RetryConfig
	logger   *zap.Logger

	// sleep is swapped in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a generation client over the given registry.
func NewClient(registry *Registry, prices PriceTable, retry RetryConfig, logger *zap.Logger) *Client {
	return &Client{
		registry: registry,
		prices:   prices,
		retry:    retry,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Generate runs the request against the provider serving req.Model. Every
// attempt counts toward Outcome.Latency; on exhausted retries the last
// underlying error is returned wrapped with the attempt count.
func (c *Client) Generate(ctx context.Context, req Request) (*Outcome, error) {
	provider, err := c.registry.ProviderForModel(req.Model)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.backoff(attempt)
			c.logger.Debug("retrying generation",
				zap.String("model", req.Model),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay))
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.retry.CallTimeout)
		result, err := provider.Generate(callCtx, req)
		cancel()

		if err == nil {
			inCost, outCost, known := c.prices.Estimate(req.Model, result.InputTokens, result.OutputTokens)
			if !known {
				c.logger.Warn("no price entry for model, cost defaulted to zero",
					zap.String("model", req.Model))
			}
			return &Outcome{
				Text:         result.Text,
				Model:        req.Model,
				Provider:     provider.Name(),
				FinishReason: result.FinishReason,
				InputTokens:  result.InputTokens,
				OutputTokens: result.OutputTokens,
				InputCost:    inCost,
				OutputCost:   outCost,
				Cost:         inCost + outCost,
				CostUnknown:  !known,
				Attempts:     attempt,
				Latency:      time.Since(start),
			}, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			// Caller cancelled; do not keep retrying against a dead context.
			return nil, &CallError{Attempts: attempt, Err: lastErr}
		}
		if !IsRetryable(err) {
			return nil, &CallError{Attempts: attempt, Err: lastErr}
		}
	}

	return nil, &CallError{Attempts: c.retry.MaxAttempts, Err: lastErr}
}

// backoff returns the delay preceding the given attempt number (>= 2).
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retry.BaseDelay << (attempt - 2)
	if delay > c.retry.MaxDelay || delay <= 0 {
		delay = c.retry.MaxDelay
	}
	return delay
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
