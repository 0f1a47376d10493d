package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTokenBucketBurstThenRefill(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tb := newTokenBucket(2, 1, clock.Now)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
	assert.Equal(t, time.Second, tb.RetryAfter())

	clock.Advance(500 * time.Millisecond)
	assert.False(t, tb.Allow())
	assert.Equal(t, 500*time.Millisecond, tb.RetryAfter())

	clock.Advance(500 * time.Millisecond)
	assert.True(t, tb.Allow())
}

func TestTokenBucketCapsAtMax(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tb := newTokenBucket(3, 10, clock.Now)

	clock.Advance(time.Hour)
	assert.Equal(t, float64(3), tb.Available())

	assert.True(t, tb.AllowN(3))
	assert.False(t, tb.Allow())

	tb.Reset()
	assert.Equal(t, float64(3), tb.Available())
}

func TestKeyedLimiterIsolatesKeys(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewKeyedLimiter(1, 1, time.Minute)
	l.now = clock.Now

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, wait := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestKeyedLimiterSweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewKeyedLimiter(1, 1, time.Minute)
	l.now = clock.Now

	l.Allow("old")
	clock.Advance(2 * time.Minute)

	// the lookup drops the idle key
	l.Allow("fresh")
	assert.Equal(t, 1, l.Len())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 0, l.Len())
}
