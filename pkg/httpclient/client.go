package httpclient

import (
	"Renwuquan/internal/config"
	"fmt"
	"net/http"
	"time"

	"Renwuquan/pkg/circuitbreaker"
)

// Client 包装标准的 http.Client，为厂商接口调用提供熔断保护。
// 短信、银豹、TTS 客户端共用同一套出站策略。
type Client struct {
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker
}

// New 根据熔断配置创建一个 Client。熔断未启用时退化为带超时的普通客户端。
func New(cfg config.CircuitBreakerConfig) (*Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	if !cfg.Enabled {
		return &Client{httpClient: httpClient}, nil
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("无效的熔断超时配置 '%s': %w", cfg.Timeout, err)
	}

	return &Client{
		httpClient: httpClient,
		breaker:    circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout),
	}, nil
}

// Do 在熔断保护下执行 HTTP 请求。5xx 响应计为熔断失败。
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, fmt.Errorf("server error: received status code %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*http.Response), nil
}
