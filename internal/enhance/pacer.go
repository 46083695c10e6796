package enhance

import (
	"context"
	"math"
	"sync"
	"time"
)

// Pacer spaces outbound enhancement requests using a token bucket.
// Tokens refill at one per interval and the bucket starts full, so the
// first request is never delayed. A single Pacer is shared by all batch
// workers to keep the request rate global.
type Pacer struct {
	capacity   int        // Maximum tokens (burst capacity)
	refillRate float64    // Tokens per second; zero disables pacing
	tokens     float64    // Current tokens available
	lastRefill time.Time  // Last time tokens were refilled
	mu         sync.Mutex // Mutex for thread safety
}

// NewPacer creates a pacer that allows one request per interval with the
// given burst capacity. A non-positive interval disables pacing.
func NewPacer(interval time.Duration, burst int) *Pacer {
	if burst < 1 {
		burst = 1
	}

	p := &Pacer{
		capacity:   burst,
		tokens:     float64(burst), // Start with full bucket
		lastRefill: time.Now(),
	}
	if interval > 0 {
		p.refillRate = 1.0 / interval.Seconds()
	}
	return p
}

// Allow checks if a token is available and consumes it if so.
// Returns true if the request may proceed now, false otherwise.
func (p *Pacer) Allow() bool {
	if p.refillRate == 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.refill(time.Now())

	if p.tokens >= 1.0 {
		p.tokens -= 1.0
		return true
	}

	return false
}

// Wait blocks until a token is available or the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Allow() {
			return nil
		}

		timer := time.NewTimer(p.nextToken())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Remaining returns the number of whole tokens currently available.
func (p *Pacer) Remaining() int {
	if p.refillRate == 0 {
		return p.capacity
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.refill(time.Now())
	return int(p.tokens)
}

// refill adds tokens for the elapsed time without exceeding capacity.
// Callers must hold the mutex.
func (p *Pacer) refill(now time.Time) {
	elapsed := now.Sub(p.lastRefill)
	p.tokens = math.Min(float64(p.capacity), p.tokens+elapsed.Seconds()*p.refillRate)
	p.lastRefill = now
}

// nextToken returns how long until at least one token accrues.
func (p *Pacer) nextToken() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refill(time.Now())

	if p.tokens >= 1.0 {
		return 0
	}
	needed := 1.0 - p.tokens
	return time.Duration(needed / p.refillRate * float64(time.Second))
}
