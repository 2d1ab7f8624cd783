package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errDownstream = errors.New("downstream failed")

func fail() (interface{}, error)    { return nil, errDownstream }
func succeed() (interface{}, error) { return "ok", nil }

func TestBreakerTripsAfterFailures(t *testing.T) {
	cb := New(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(fail); !errors.Is(err, errDownstream) {
			t.Fatalf("第 %d 次失败应透传下游错误, got %v", i+1, err)
		}
	}
	if cb.State() != Open {
		t.Fatalf("连续失败达到阈值后状态应为 Open, got %s", cb.State())
	}

	// Open 状态下请求被直接拒绝，不触达下游
	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Open 状态应返回 ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Fatal("Open 状态下不应执行请求")
	}
}

func TestBreakerRecoversViaHalfOpen(t *testing.T) {
	cb := New(1, 2, 10*time.Millisecond)

	cb.Execute(fail)
	if cb.State() != Open {
		t.Fatalf("状态应为 Open, got %s", cb.State())
	}

	// 等待超时，熔断器应放行试探请求
	time.Sleep(20 * time.Millisecond)

	if _, err := cb.Execute(succeed); err != nil {
		t.Fatalf("半开试探请求应被放行: %v", err)
	}
	if cb.State() != HalfOpen {
		t.Fatalf("一次成功后仍需保持 Half-Open, got %s", cb.State())
	}

	if _, err := cb.Execute(succeed); err != nil {
		t.Fatalf("第二次试探请求应被放行: %v", err)
	}
	if cb.State() != Closed {
		t.Fatalf("连续成功达到阈值后状态应为 Closed, got %s", cb.State())
	}
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := New(1, 1, 10*time.Millisecond)

	cb.Execute(fail)
	time.Sleep(20 * time.Millisecond)

	// 半开状态下一次失败立即重新打开
	cb.Execute(fail)
	if cb.State() != Open {
		t.Fatalf("半开试探失败后状态应为 Open, got %s", cb.State())
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := New(2, 1, time.Minute)

	cb.Execute(fail)
	cb.Execute(succeed)
	cb.Execute(fail)
	if cb.State() != Closed {
		t.Fatalf("非连续失败不应触发熔断, got %s", cb.State())
	}
}
