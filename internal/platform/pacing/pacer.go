// Package pacing spaces outbound calls per provider. It guarantees a
// minimum gap between consecutive calls to the same provider without
// imposing any ceiling beyond that implied gap, and never blocks calls to
// other providers.
package pacing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer hands out turns per provider id. Burst is fixed at 1 so the first
// call proceeds immediately and every later call waits out the remainder of
// the configured minimum interval.
type Pacer struct {
	mu              sync.Mutex
	limiters        map[string]*rate.Limiter
	intervals       map[string]time.Duration
	defaultInterval time.Duration
}

func NewPacer(defaultInterval time.Duration, perProvider map[string]time.Duration) *Pacer {
	if defaultInterval < 0 {
		defaultInterval = 0
	}

	intervals := make(map[string]time.Duration, len(perProvider))
	for id, interval := range perProvider {
		if interval > 0 {
			intervals[id] = interval
		}
	}

	return &Pacer{
		limiters:        make(map[string]*rate.Limiter),
		intervals:       intervals,
		defaultInterval: defaultInterval,
	}
}

// AwaitTurn blocks until it is safe to issue the next call to providerID,
// or until ctx is done.
func (p *Pacer) AwaitTurn(ctx context.Context, providerID string) error {
	return p.limiterFor(providerID).Wait(ctx)
}

// MinInterval reports the configured gap for a provider.
func (p *Pacer) MinInterval(providerID string) time.Duration {
	if interval, ok := p.intervals[providerID]; ok {
		return interval
	}
	return p.defaultInterval
}

func (p *Pacer) limiterFor(providerID string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, ok := p.limiters[providerID]; ok {
		return limiter
	}

	interval := p.MinInterval(providerID)
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	limiter := rate.NewLimiter(limit, 1)
	p.limiters[providerID] = limiter
	return limiter
}
