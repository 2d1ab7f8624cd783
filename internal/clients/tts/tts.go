package tts

import (
	"Renwuquan/internal/config"
	"Renwuquan/pkg/httpclient"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client 是语音合成（TTS）服务商的 API 包装，输入文本，输出音频字节。
type Client struct {
	cfg  config.TTSConfig
	http *httpclient.Client
}

// New 创建一个 TTS 客户端。
func New(cfg config.TTSConfig, hc *httpclient.Client) *Client {
	return &Client{cfg: cfg, http: hc}
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize 合成一段语音。voice 为空时使用配置的默认音色。
// 服务商偶发返回 200 但音频体为空（线上静音问题的根因），
// 这里把空音频当作错误处理，让调用方重试或降级。
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = c.cfg.Voice
	}
	body, err := json.Marshal(synthesizeRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/v1/tts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS 请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS 服务商返回状态 %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取 TTS 音频失败: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("TTS 服务商返回空音频")
	}
	return audio, nil
}
