package ratelimiter

import (
	"testing"
	"time"
)

func TestTokenBucketBurst(t *testing.T) {
	tb := NewTokenBucket(1, 3)

	// 桶初始为满，允许容量以内的突发
	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("第 %d 个请求应被放行", i+1)
		}
	}
	if tb.Allow() {
		t.Fatal("超出突发容量的请求应被拒绝")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(100, 1)

	if !tb.Allow() {
		t.Fatal("首个请求应被放行")
	}
	if tb.Allow() {
		t.Fatal("令牌耗尽后应被拒绝")
	}

	// 100 令牌/秒，等待足够补充一个令牌
	time.Sleep(20 * time.Millisecond)
	if !tb.Allow() {
		t.Fatal("补充令牌后应重新放行")
	}
}

func TestTokenBucketCapacityCap(t *testing.T) {
	tb := NewTokenBucket(100, 2)

	tb.Allow()
	tb.Allow()

	// 即使等待远超补满所需时间，令牌数也不应超过容量
	time.Sleep(100 * time.Millisecond)
	allowed := 0
	for i := 0; i < 10; i++ {
		if tb.Allow() {
			allowed++
		}
	}
	if allowed > 2 {
		t.Fatalf("放行 %d 个请求, 不应超过容量 2", allowed)
	}
}
