package services

import (
	"context"
	"errors"
	"time"
)

// RetryingGenerator wraps a Generator with bounded retries. Each attempt is
// bounded by its own timeout; a deadline hit counts as a failed attempt.
// Backoff between attempts is exponential: baseDelay * 2^(attempt-1).
// Invocations are independent; no state is shared between concurrent calls.
type RetryingGenerator struct {
	gen         Generator
	maxAttempts int
	baseDelay   time.Duration
	timeout     time.Duration
}

// NewRetryingGenerator builds the wrapper. maxAttempts below 1 is treated
// as 1, which is the fail-fast mode: one attempt, no backoff.
func NewRetryingGenerator(gen Generator, maxAttempts int, baseDelay, timeout time.Duration) *RetryingGenerator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingGenerator{
		gen:         gen,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		timeout:     timeout,
	}
}

func (g *RetryingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		out, err := g.attempt(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == g.maxAttempts {
			break
		}

		delay := g.baseDelay * time.Duration(1<<uint(attempt-1))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", &GenerationFailedError{Attempts: attempt, Err: ctx.Err()}
		}
	}

	return "", &GenerationFailedError{
		Attempts: g.maxAttempts,
		Timeout:  errors.Is(lastErr, context.DeadlineExceeded),
		Err:      lastErr,
	}
}

func (g *RetryingGenerator) attempt(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.gen.Generate(ctx, prompt)
}
