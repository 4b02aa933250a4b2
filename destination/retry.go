package destination

import (
	"context"
	"time"
)

// retryPolicy makes the upsert retry behaviour declarative: up to Retries
// attempts with linearly increasing backoff (attempt * BaseDelay) between
// them. Only the destination write retries automatically; it is the one
// remote mutation whose transient failures are worth absorbing.
type retryPolicy struct {
	Retries   int
	BaseDelay time.Duration
}

func (p retryPolicy) withDefaults() retryPolicy {
	if p.Retries <= 0 {
		p.Retries = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 500 * time.Millisecond
	}
	return p
}

// withRetry runs fn until it succeeds or the policy's attempts are
// exhausted, returning the number of attempts actually made alongside the
// last error. Context cancellation cuts the wait short and returns
// immediately, so the count can be lower than the policy allows.
func withRetry(ctx context.Context, policy retryPolicy, fn func(ctx context.Context) error) (int, error) {
	policy = policy.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= policy.Retries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if attempt == policy.Retries {
			return attempt, lastErr
		}

		select {
		case <-time.After(time.Duration(attempt) * policy.BaseDelay):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}
	}
	return policy.Retries, lastErr
}
