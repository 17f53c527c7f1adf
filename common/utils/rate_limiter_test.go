package utils

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiter_Burst(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	rl := newRateLimiter(2, 3, clock.now)
	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d within burst should pass", i)
		}
	}
	if rl.Allow() {
		t.Fatalf("burst exhausted, request should be rejected")
	}

	clock.advance(500 * time.Millisecond)
	if !rl.Allow() {
		t.Fatalf("one token refilled after 0.5s at 2/s")
	}
	if rl.Allow() {
		t.Fatalf("only one token should have been refilled")
	}

	clock.advance(time.Hour)
	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("refill must be capped at burst, request %d", i)
		}
	}
	if rl.Allow() {
		t.Fatalf("refill exceeded burst")
	}
}

func TestKeyedRateLimiter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	k := NewKeyedRateLimiter(1, 1)
	k.now = clock.now

	if !k.Allow("a") || k.Allow("a") {
		t.Fatalf("key a should get exactly one request")
	}
	if !k.Allow("b") {
		t.Fatalf("keys must not share a bucket")
	}

	clock.advance(time.Minute)
	for i := 0; i < cleanupEvery; i++ {
		k.Allow("c")
	}
	if k.Len() != 1 {
		t.Fatalf("idle buckets should be cleaned up, %d left", k.Len())
	}
}
