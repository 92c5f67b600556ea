package pacing

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenBucket paces requests with a token bucket shared by all hosts.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket allows rps requests per second with bursts of up to burst requests.
func NewTokenBucket(rps float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}

	return &TokenBucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// WaitBeforeNext blocks until a token is available or ctx is cancelled.
func (p *TokenBucket) WaitBeforeNext(ctx context.Context, _ string) error {
	return p.limiter.Wait(ctx)
}
