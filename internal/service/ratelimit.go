package service

import (
	"sync"
	"time"
)

// AttemptLimiter throttles login attempts per client key (remote IP) using
// a token bucket. Safe for concurrent use. Stale buckets are pruned inline
// once the map grows, so no background goroutine is needed.
type AttemptLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*attemptBucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
}

type attemptBucket struct {
	tokens float64
	last   time.Time
}

const staleBucketAge = 10 * time.Minute

// NewAttemptLimiter creates a limiter allowing bursts of up to capacity
// attempts per key, refilling at rate attempts per second.
func NewAttemptLimiter(rate, capacity float64) *AttemptLimiter {
	return &AttemptLimiter{
		buckets:  make(map[string]*attemptBucket),
		rate:     rate,
		capacity: capacity,
	}
}

// Allow reports whether the key may attempt again, consuming one token.
func (l *AttemptLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	if len(l.buckets) > 1024 {
		l.prune(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &attemptBucket{tokens: l.capacity, last: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*l.rate, l.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// prune drops buckets idle longer than staleBucketAge. Caller holds the lock.
func (l *AttemptLimiter) prune(now time.Time) {
	cutoff := now.Add(-staleBucketAge)
	for key, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
