package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type rateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit blocks each call until limiter grants a token.
func WithRateLimit(p Provider, limiter *rate.Limiter) Provider {
	return &rateLimitedProvider{inner: p, limiter: limiter}
}

// PerMinute builds a limiter allowing n requests per minute with a burst of one.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

func (r *rateLimitedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Generate(ctx, req)
}

func (r *rateLimitedProvider) ModelID() string {
	return r.inner.ModelID()
}
