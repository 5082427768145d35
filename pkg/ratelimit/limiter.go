package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for pacing enumeration queries
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another request
	Wait(ctx context.Context) error
	// Reset resets the rate limiter state
	Reset()
}

// Interval is a fixed-spacing limiter: consecutive calls are at least
// the configured interval apart. This is the baseline pacing behavior;
// the platform enforces its own limits server-side, so anything more
// aggressive just turns into transient search failures.
type Interval struct {
	interval time.Duration
	rl       *rate.Limiter
	mu       sync.Mutex
}

// NewInterval creates a fixed-spacing limiter with the given minimum
// spacing between requests. A zero or negative interval never blocks.
func NewInterval(interval time.Duration) *Interval {
	return &Interval{
		interval: interval,
		rl:       newIntervalLimiter(interval),
	}
}

func newIntervalLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Allow checks if a request can proceed without blocking
func (i *Interval) Allow() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rl.Allow()
}

// Wait blocks until the spacing has elapsed or the context is cancelled
func (i *Interval) Wait(ctx context.Context) error {
	i.mu.Lock()
	rl := i.rl
	i.mu.Unlock()
	return rl.Wait(ctx)
}

// Reset discards accumulated state so the next request proceeds immediately
func (i *Interval) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rl = newIntervalLimiter(i.interval)
}

// TokenBucket implements a token bucket rate limiter. Used when the
// configuration asks for a requests-per-minute budget instead of plain
// fixed spacing.
type TokenBucket struct {
	capacity     int           // Maximum number of tokens
	tokens       int           // Current number of tokens
	refillPeriod time.Duration // Period after which bucket is refilled
	lastRefill   time.Time     // Last time the bucket was refilled
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available or the context is cancelled
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill <= 0 {
			// Small sleep to prevent busy waiting
			timeUntilRefill = 100 * time.Millisecond
		}

		timer := time.NewTimer(timeUntilRefill)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Reset resets the token bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// refill adds tokens based on elapsed time
func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}
