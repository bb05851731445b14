// Package ratelimit provides a per-key token-bucket limiter.
package ratelimit

import (
	"sync"
	"time"
)

// bucket holds the refill state for a single API key.
// Invariant: 0 <= tokens <= capacity whenever mu is released.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	last     time.Time
}

// allow lazily refills the bucket and consumes one token if available.
func (b *bucket) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.last).Seconds()
	if elapsed < 0 {
		// Clock anomalies never drain the bucket
		elapsed = 0
	}
	b.last = now

	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Limiter decides whether requests are admitted, one token bucket per API key.
// Buckets are created on first sight of a key and never evicted; key
// cardinality is assumed bounded for the life of the process.
type Limiter struct {
	mu      sync.Mutex // guards buckets map only, not bucket state
	buckets map[string]*bucket
	rate    float64
	burst   int

	// now is swappable in tests
	now func() time.Time
}

// NewLimiter constructs a limiter with the given refill rate (tokens per
// second) and burst capacity.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		now:     time.Now,
	}
}

// Admit reports whether a request for the given API key may proceed,
// consuming one token if so. The first call for an unseen key always
// succeeds: new buckets start at full burst.
func (l *Limiter) Admit(apiKey string) bool {
	l.mu.Lock()
	b, ok := l.buckets[apiKey]
	if !ok {
		b = &bucket{
			capacity: float64(l.burst),
			rate:     l.rate,
			tokens:   float64(l.burst),
			last:     l.now(),
		}
		l.buckets[apiKey] = b
	}
	l.mu.Unlock()

	return b.allow(l.now())
}

// Len returns the number of tracked keys. Buckets are never evicted, so this
// only grows; exposed for observability.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
