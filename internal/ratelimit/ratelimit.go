// Package ratelimit provides a token-bucket pacer for provider calls.
// Chunked summarisation issues several completions back to back; pacing
// them keeps local servers responsive and hosted providers below their
// request limits.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultRate is the default request rate in requests per second.
const DefaultRate = 1.0

// DefaultBurst is the default bucket size.
const DefaultBurst = 1

// Limiter paces calls with a token bucket. A nil *Limiter never waits,
// so callers can treat pacing as optional.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a limiter allowing perSecond requests with the given burst.
func New(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.bucket.Wait(ctx)
}
