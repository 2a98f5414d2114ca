package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles email delivery to a steady number of sends per second.
// Burst is set equal to the rate so no extra burst capacity is allowed
// beyond the configured per-second maximum.
//
// A nil or zero-rate Limiter never blocks.
type Limiter struct {
	l *rate.Limiter
}

// New creates a Limiter allowing ratePerSec sends per second.
// ratePerSec <= 0 disables limiting.
func New(ratePerSec int) *Limiter {
	if ratePerSec <= 0 {
		return &Limiter{}
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)}
}

// Wait blocks until a token is available.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (cl *Limiter) Wait(ctx context.Context) error {
	if cl == nil || cl.l == nil {
		return nil
	}
	return cl.l.Wait(ctx)
}

// Unlimited reports whether Wait is a no-op.
func (cl *Limiter) Unlimited() bool {
	return cl == nil || cl.l == nil
}
