// Package ratelimit throttles outbound API calls with a token bucket.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is a thin wrapper over golang.org/x/time/rate sized for the
// per-provider quotas the scanner talks to (bridge fee API, market
// data APIs).
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter from a per-minute allowance, with a burst of
// 10% of the allowance (minimum 1).
func New(requestsPerMinute int) *Limiter {
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

// NewWithBurst creates a limiter from a per-second rate and an
// explicit burst size.
func NewWithBurst(requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
