package utils

import (
	"sync"
	"time"
)

// RateLimiter 令牌桶
type RateLimiter struct {
	rate       float64
	capacity   float64
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewRateLimiter 创建一个新的限流器
// rate: 每秒补充的令牌数
// burst: 桶的容量，即允许的突发请求数
func NewRateLimiter(rate int, burst int) *RateLimiter {
	return newRateLimiter(rate, burst, time.Now)
}

func newRateLimiter(rate, burst int, now func() time.Time) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rate:       float64(rate),
		capacity:   float64(burst),
		tokens:     float64(burst),
		lastRefill: now(),
		now:        now,
	}
}

// Allow 判断当前请求是否允许通过
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.rate)
	rl.lastRefill = now

	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

// full 桶已满，说明一段时间内没有请求
func (rl *RateLimiter) full() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	elapsed := rl.now().Sub(rl.lastRefill).Seconds()
	return rl.tokens+elapsed*rl.rate >= rl.capacity
}

// KeyedRateLimiter 每个 key（通常是客户端 IP）一个令牌桶
type KeyedRateLimiter struct {
	rate     int
	burst    int
	now      func() time.Time
	mu       sync.Mutex
	limiters map[string]*RateLimiter
	calls    int
}

func NewKeyedRateLimiter(rate, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		rate:     rate,
		burst:    burst,
		now:      time.Now,
		limiters: make(map[string]*RateLimiter),
	}
}

// cleanupEvery 每隔多少次调用清理一次已回满的桶
const cleanupEvery = 1024

func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	rl, ok := k.limiters[key]
	if !ok {
		rl = newRateLimiter(k.rate, k.burst, k.now)
		k.limiters[key] = rl
	}
	k.calls++
	if k.calls%cleanupEvery == 0 {
		for other, l := range k.limiters {
			if other != key && l.full() {
				delete(k.limiters, other)
			}
		}
	}
	k.mu.Unlock()
	return rl.Allow()
}

// Len 当前跟踪的 key 数
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}
