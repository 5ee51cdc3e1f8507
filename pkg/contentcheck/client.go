package contentcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eduinsight/backend/config"
	apperrors "eduinsight/backend/pkg/errors"
)

// 审核建议
const (
	RecommendApprove = "approve"
	RecommendReject  = "reject"
	RecommendManual  = "manual"
)

// Result 一次内容检查的汇总结果
type Result struct {
	Safe           bool     `json:"safe"`
	SensitiveWords []string `json:"sensitive_words"`
	Similarity     float64  `json:"similarity_score"`
	Quality        float64  `json:"quality_score"`
	Recommendation string   `json:"recommendation"`
}

// Client 外部内容检查服务客户端
// 敏感词、相似度、质量三个接口并发调用，任一失败即整体失败
type Client struct {
	sensitiveAPI  string
	similarityAPI string
	qualityAPI    string
	http          *http.Client
}

// New 创建客户端；三个接口都未配置时返回 nil
func New(cfg *config.ContentCheckConfig) *Client {
	if strings.TrimSpace(cfg.SensitiveAPI) == "" &&
		strings.TrimSpace(cfg.SimilarityAPI) == "" &&
		strings.TrimSpace(cfg.QualityAPI) == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		sensitiveAPI:  cfg.SensitiveAPI,
		similarityAPI: cfg.SimilarityAPI,
		qualityAPI:    cfg.QualityAPI,
		http:          &http.Client{Timeout: timeout},
	}
}

// Check 检查 url 指向的内容并给出审核建议
func (c *Client) Check(ctx context.Context, url string) (*Result, error) {
	if c == nil {
		return nil, apperrors.ErrNotConfigured
	}

	var (
		sensitive struct {
			SensitiveWords []string `json:"sensitive_words"`
		}
		similarity struct {
			Similarity float64 `json:"similarity"`
		}
		quality struct {
			Quality float64 `json:"quality"`
		}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.post(gctx, c.sensitiveAPI, url, &sensitive) })
	g.Go(func() error { return c.post(gctx, c.similarityAPI, url, &similarity) })
	g.Go(func() error { return c.post(gctx, c.qualityAPI, url, &quality) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	words := sensitive.SensitiveWords
	if words == nil {
		words = []string{}
	}
	safe := len(words) == 0
	return &Result{
		Safe:           safe,
		SensitiveWords: words,
		Similarity:     similarity.Similarity,
		Quality:        quality.Quality,
		Recommendation: Recommend(safe, similarity.Similarity, quality.Quality),
	}, nil
}

// Recommend 由检查结果得出建议：
// 含敏感词、相似度高于 0.8 或质量低于 0.3 时驳回，质量高于 0.7 时通过，其余转人工
func Recommend(safe bool, similarity, quality float64) string {
	switch {
	case !safe, similarity > 0.8, quality < 0.3:
		return RecommendReject
	case quality > 0.7:
		return RecommendApprove
	default:
		return RecommendManual
	}
}

// post 发送 {"url": ...}，非 2xx 视为失败
func (c *Client) post(ctx context.Context, api, url string, out any) error {
	if api == "" {
		return fmt.Errorf("内容检查接口未配置: %w", apperrors.ErrNotConfigured)
	}
	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, api, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("调用内容检查服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("内容检查服务返回 %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("解析内容检查结果失败: %w", err)
	}
	return nil
}
