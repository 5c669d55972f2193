package rate_limiter

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// APILimiter paces calls to a remote API with a fixed minimum interval.
// It is not adaptive: the interval never changes in response to errors.
type APILimiter struct {
	Name string

	// underlying rate limiter
	limiter *rate.Limiter
}

// NewAPILimiter builds a limiter from the definition.
// A zero interval produces a limiter which never waits.
func NewAPILimiter(d Definition) *APILimiter {
	limit := rate.Inf
	if d.Interval > 0 {
		limit = rate.Every(d.Interval)
	}
	burst := d.BucketSize
	if burst < 1 {
		burst = 1
	}
	return &APILimiter{
		Name:    d.Name,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Unlimited returns a limiter which never waits
func Unlimited(name string) *APILimiter {
	return NewAPILimiter(Definition{Name: name})
}

func (l *APILimiter) String() string {
	return l.Name
}

// Wait blocks until the next call is allowed or the context is done
func (l *APILimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// WaitBestEffort waits like [APILimiter.Wait], but an interrupted wait is only logged.
// Pacing is a courtesy to the remote service, not a correctness requirement.
func (l *APILimiter) WaitBestEffort(ctx context.Context) {
	if err := l.limiter.Wait(ctx); err != nil {
		slog.Warn("rate limiter wait interrupted", "limiter", l.Name, "error", err)
	}
}
