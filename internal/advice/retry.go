package advice

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// failureClass partitions generation errors by how the retry loop
// should react to them.
type failureClass int

const (
	// failTerminal: retrying cannot help (context gone, response
	// truncated at the token cap).
	failTerminal failureClass = iota
	// failRetryOnce: the model produced off-schema advice; one replay
	// is worth it, a second malformed answer is not.
	failRetryOnce
	// failTransient: rate limits, outages, and unknown network errors.
	failTransient
)

func classifyFailure(err error) failureClass {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return failTerminal
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return failTerminal
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return failRetryOnce
	}
	return failTransient
}

// RetryProvider decorates a Provider with exponential backoff and
// jitter, so a rate-limited advice call degrades to a slow advice card
// instead of an error.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidSeen := false

	for attempt := range r.cfg.MaxAttempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classifyFailure(err) {
		case failTerminal:
			return nil, err
		case failRetryOnce:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		if attempt == r.cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.wait(attempt, err)):
		}
	}
	return nil, lastErr
}

// wait computes the sleep before the next attempt. A provider-supplied
// Retry-After wins; otherwise exponential backoff capped at MaxWait,
// with 20% jitter either way to avoid thundering retries.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	backoff := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	backoff = math.Min(backoff, float64(r.cfg.MaxWait))
	backoff += backoff * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(backoff, 0))
}
