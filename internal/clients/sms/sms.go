package sms

import (
	"Renwuquan/internal/config"
	"Renwuquan/pkg/httpclient"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client 是短信服务商的 API 包装。协议细节对上层不可见，
// 上层只关心"给这个手机号发这个验证码"。
type Client struct {
	cfg  config.SMSConfig
	http *httpclient.Client
}

// New 创建一个短信客户端。
func New(cfg config.SMSConfig, hc *httpclient.Client) *Client {
	return &Client{cfg: cfg, http: hc}
}

type sendRequest struct {
	Phone    string            `json:"phone"`
	SignName string            `json:"signName"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params"`
}

type sendResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendCode 下发一条验证码短信。
func (c *Client) SendCode(ctx context.Context, phone, code string) error {
	body, err := json.Marshal(sendRequest{
		Phone:    phone,
		SignName: c.cfg.SignName,
		Template: c.cfg.Template,
		Params:   map[string]string{"code": code},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/sms/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("短信下发请求失败: %w", err)
	}
	defer resp.Body.Close()

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("解析短信服务商响应失败: %w", err)
	}
	if result.Code != "OK" {
		return fmt.Errorf("短信服务商拒绝下发: %s (%s)", result.Message, result.Code)
	}
	return nil
}
