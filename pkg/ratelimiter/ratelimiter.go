package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter 是限流器接口。Allow 在请求被放行时返回 true。
type RateLimiter interface {
	Allow() bool
}

// TokenBucket 用令牌桶算法实现 RateLimiter，允许不超过桶容量的突发。
// 用于限制验证码短信的下发频率。
type TokenBucket struct {
	rate     float64 // 每秒生成的令牌数
	capacity float64 // 桶容量（突发上限）
	tokens   float64
	last     time.Time
	mu       sync.Mutex
}

// NewTokenBucket 创建一个令牌桶，初始为满。
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:     rate,
		capacity: float64(capacity),
		tokens:   float64(capacity),
		last:     time.Now(),
	}
}

// Allow 先按流逝时间补充令牌，再尝试消费一个。
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	if elapsed := now.Sub(tb.last); elapsed > 0 {
		tb.tokens += elapsed.Seconds() * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}
