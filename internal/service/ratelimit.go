package service

import (
	"sync"
	"time"
)

// TokenBucket is an in-memory per-key rate limiter. It guards the signup and
// login endpoints against credential stuffing, keyed by client address.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a limiter allowing bursts of capacity per key,
// refilled at rate tokens per second. Idle keys are evicted in the
// background until Stop is called.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		done:     make(chan struct{}),
	}
	go tb.evictIdle(5*time.Minute, 10*time.Minute)
	return tb
}

// Allow consumes one token for key and reports whether one was available.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	b.tokens = min(b.tokens+now.Sub(b.last).Seconds()*tb.rate, tb.capacity)
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RetryAfter estimates how long key must wait for its next token.
func (tb *TokenBucket) RetryAfter(key string) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	b, ok := tb.buckets[key]
	if !ok || b.tokens >= 1 || tb.rate <= 0 {
		return 0
	}
	return time.Duration((1 - b.tokens) / tb.rate * float64(time.Second))
}

// Stop ends background eviction.
func (tb *TokenBucket) Stop() {
	tb.stopOnce.Do(func() { close(tb.done) })
}

func (tb *TokenBucket) evictIdle(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-tb.done:
			return
		case <-ticker.C:
			tb.mu.Lock()
			cutoff := time.Now().Add(-idle)
			for key, b := range tb.buckets {
				if b.last.Before(cutoff) {
					delete(tb.buckets, key)
				}
			}
			tb.mu.Unlock()
		}
	}
}
