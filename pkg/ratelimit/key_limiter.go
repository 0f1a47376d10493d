package ratelimit

import (
	"sync"
	"time"
)

// KeyedLimiter keeps one token bucket per key (a client address, a route).
// Buckets unused for longer than the idle TTL are dropped, at most once per
// TTL, on the next lookup.
type KeyedLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*keyedBucket
	maxTokens  float64
	refillRate float64
	idleTTL    time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

type keyedBucket struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// NewKeyedLimiter creates a limiter where every key gets maxTokens of burst
// refilled at refillRate per second
func NewKeyedLimiter(maxTokens, refillRate float64, idleTTL time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		buckets:    make(map[string]*keyedBucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
		idleTTL:    idleTTL,
		now:        time.Now,
	}
}

// Allow takes a token from the key's bucket. When denied, the returned
// duration is the wait until the next token.
func (l *KeyedLimiter) Allow(key string) (bool, time.Duration) {
	b := l.get(key)

	if b.Allow() {
		return true, 0
	}
	return false, b.RetryAfter()
}

func (l *KeyedLimiter) get(key string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.idleTTL > 0 && now.Sub(l.lastSweep) > l.idleTTL {
		l.sweep(now)
	}

	entry, ok := l.buckets[key]
	if !ok {
		entry = &keyedBucket{bucket: newTokenBucket(l.maxTokens, l.refillRate, l.now)}
		l.buckets[key] = entry
	}
	entry.lastSeen = now

	return entry.bucket
}

// Sweep drops idle buckets and returns how many were removed
func (l *KeyedLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.sweep(l.now())
}

func (l *KeyedLimiter) sweep(now time.Time) int {
	l.lastSweep = now
	cutoff := now.Add(-l.idleTTL)
	removed := 0

	for key, entry := range l.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked keys
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
