package replay

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Pacer throttles scenario steps to a real-time rate, so a replay can be
// watched as it happens instead of completing instantly.
type Pacer struct {
	limiter *rate.Limiter
	mu      sync.RWMutex
}

// NewPacer creates a pacer allowing stepsPerSec steps per second. A rate
// of 0 disables pacing.
func NewPacer(stepsPerSec int) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(stepsPerSec), 1),
	}
}

// Wait blocks until the next step may run. With pacing disabled it
// returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.RLock()
	limiter := p.limiter
	limit := limiter.Limit()
	p.mu.RUnlock()

	if limit == 0 {
		return nil
	}
	return limiter.Wait(ctx)
}

// SetRate adjusts the pacing rate.
func (p *Pacer) SetRate(stepsPerSec int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limiter.SetLimit(rate.Limit(stepsPerSec))
}
