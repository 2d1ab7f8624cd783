package tts

import (
	"Renwuquan/internal/config"
	"Renwuquan/pkg/httpclient"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	hc, err := httpclient.New(config.CircuitBreakerConfig{})
	if err != nil {
		t.Fatalf("创建 HTTP 客户端失败: %v", err)
	}
	return New(config.TTSConfig{Endpoint: endpoint, APIKey: "test-key", Voice: "xiaoyun"}, hc)
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tts" {
			t.Errorf("path = %s, want /v1/tts", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var req synthesizeRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("请求体不是合法 JSON: %v", err)
		}
		if req.Text != "你好" {
			t.Errorf("text = %q, want 你好", req.Text)
		}
		// 未显式指定时应落到配置的默认音色
		if req.Voice != "xiaoyun" {
			t.Errorf("voice = %q, want xiaoyun", req.Voice)
		}
		w.Write([]byte("fake-mp3-bytes"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	audio, err := c.Synthesize(context.Background(), "你好", "")
	if err != nil {
		t.Fatalf("Synthesize 失败: %v", err)
	}
	if string(audio) != "fake-mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestSynthesizeEmptyAudio(t *testing.T) {
	// 服务商返回 200 但响应体为空，必须视为失败而不是静音文件
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Synthesize(context.Background(), "你好", ""); err == nil {
		t.Fatal("空音频应返回错误")
	} else if !strings.Contains(err.Error(), "空音频") {
		t.Errorf("错误信息应说明空音频, got: %v", err)
	}
}

func TestSynthesizeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Synthesize(context.Background(), "你好", ""); err == nil {
		t.Fatal("非 200 状态应返回错误")
	}
}
