package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eduinsight/backend/config"
	apperrors "eduinsight/backend/pkg/errors"
)

// TrainRequest 训练触发请求体
type TrainRequest struct {
	ModelID   uint           `json:"model_id"`
	ModelType string         `json:"model_type"`
	Config    map[string]any `json:"config"`
}

// Client 外部模型服务客户端
// 只负责发起一次训练请求，训练过程与结果回写不在本服务内
type Client struct {
	baseURL string
	http    *http.Client
}

// New 创建客户端；未配置 base_url 时返回 nil，调用方按"仅记录"处理
func New(cfg *config.ModelServiceConfig) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Train 调用 POST {base_url}/model/train，非 2xx 视为失败
func (c *Client) Train(ctx context.Context, req TrainRequest) error {
	if c == nil {
		return apperrors.ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/model/train", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("调用模型服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("模型服务返回 %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
