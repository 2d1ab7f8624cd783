package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 表示熔断器的状态。
type State int

const (
	// Closed 是初始状态，请求正常放行。
	Closed State = iota
	// Open 表示熔断已触发，请求被直接拒绝。
	Open
	// HalfOpen 允许少量试探请求以探测下游是否恢复。
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen 在熔断器处于 Open 状态时返回。
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker 包装对不稳定下游（短信、银豹、TTS 等厂商接口）的调用。
type CircuitBreaker interface {
	// Execute 在熔断器允许的情况下执行给定请求。
	Execute(req func() (interface{}, error)) (interface{}, error)
	// State 返回当前的熔断状态。
	State() State
}

type breaker struct {
	failureThreshold uint32 // 连续失败多少次后打开熔断
	successThreshold uint32 // 半开状态下连续成功多少次后关闭熔断
	timeout          time.Duration

	failures  uint32
	successes uint32
	openedAt  time.Time
	state     State
	mu        sync.Mutex
}

// New 创建一个熔断器。
// failureThreshold: 打开熔断所需的连续失败次数。
// successThreshold: 半开状态下关闭熔断所需的连续成功次数。
// timeout: 熔断打开后转入半开状态前的等待时间。
func New(failureThreshold, successThreshold uint32, timeout time.Duration) CircuitBreaker {
	return &breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            Closed,
	}
}

func (cb *breaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *breaker) Execute(req func() (interface{}, error)) (interface{}, error) {
	cb.mu.Lock()
	if cb.state == Open {
		if time.Since(cb.openedAt) <= cb.timeout {
			cb.mu.Unlock()
			return nil, ErrCircuitOpen
		}
		// 超时已过，进入半开状态试探。
		cb.state = HalfOpen
		cb.successes = 0
	}
	cb.mu.Unlock()

	res, err := req()
	if err != nil {
		cb.onFailure()
		return nil, err
	}
	cb.onSuccess()
	return res, nil
}

func (cb *breaker) onSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = Closed
			cb.failures = 0
			cb.successes = 0
		}
	case Closed:
		cb.failures = 0
	}
}

func (cb *breaker) onFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HalfOpen:
		cb.trip()
	case Closed:
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.trip()
		}
	}
}

// trip 打开熔断。调用方必须已持有锁。
func (cb *breaker) trip() {
	cb.state = Open
	cb.openedAt = time.Now()
	cb.failures = 0
	cb.successes = 0
}
