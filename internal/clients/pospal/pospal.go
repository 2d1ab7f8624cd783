package pospal

import (
	"Renwuquan/internal/config"
	"Renwuquan/pkg/httpclient"
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client 是银豹（Pospal）会员系统开放平台的 API 包装。
// 银豹的请求签名是 MD5(appKey + 请求体) 的大写十六进制，
// 随 data-signature 头一起发送。
type Client struct {
	cfg  config.PospalConfig
	http *httpclient.Client
}

// New 创建一个银豹客户端。
func New(cfg config.PospalConfig, hc *httpclient.Client) *Client {
	return &Client{cfg: cfg, http: hc}
}

// Member 是银豹会员档案中本系统关心的字段。
type Member struct {
	CustomerUID int64           `json:"customerUid"`
	Number      string          `json:"number"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Balance     decimal.Decimal `json:"balance"`
	Point       decimal.Decimal `json:"point"`
}

type envelope struct {
	Status   string          `json:"status"`
	Messages []string        `json:"messages"`
	Data     json.RawMessage `json:"data"`
}

// Signature 计算银豹请求签名：MD5(appKey + body) 的大写十六进制。
func Signature(appKey string, body []byte) string {
	sum := md5.Sum(append([]byte(appKey), body...))
	return strings.ToUpper(fmt.Sprintf("%x", sum))
}

// QueryMemberByNumber 按会员号查询会员档案。
func (c *Client) QueryMemberByNumber(ctx context.Context, number string) (*Member, error) {
	var member Member
	err := c.post(ctx, "/pospal-api2/openapi/v1/customerOpenApi/queryByNumber",
		map[string]interface{}{"appId": c.cfg.AppID, "customerNum": number}, &member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// AddPoint 为会员增加积分（任务达标后的会员奖励联动）。
func (c *Client) AddPoint(ctx context.Context, customerUID int64, point decimal.Decimal) error {
	return c.post(ctx, "/pospal-api2/openapi/v1/customerOpenApi/updateBaseInfo",
		map[string]interface{}{
			"appId":          c.cfg.AppID,
			"customerUid":    customerUID,
			"pointIncrement": point,
		}, nil)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "openApi")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("accept-encoding", "gzip,deflate")
	req.Header.Set("time-stamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	req.Header.Set("data-signature", Signature(c.cfg.AppKey, body))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("银豹接口请求失败: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("解析银豹响应失败: %w", err)
	}
	if env.Status != "success" {
		return fmt.Errorf("银豹接口调用失败: %s", strings.Join(env.Messages, "; "))
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("解析银豹响应数据失败: %w", err)
		}
	}
	return nil
}
