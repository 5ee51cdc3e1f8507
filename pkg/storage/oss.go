package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"eduinsight/backend/config"
)

// OSS 阿里云对象存储
type OSS struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
}

// NewOSS 连接 OSS 并校验 bucket 可访问
func NewOSS(cfg *config.OSSConfig, logger *zap.Logger) (*OSS, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("创建 OSS 客户端失败: %w", err)
	}

	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("获取 OSS bucket 失败: %w", err)
	}

	// 子账号可能没有 GetBucketLocation 权限，403 时仅告警
	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			logger.Warn("跳过 OSS bucket 位置校验", zap.String("bucket", cfg.Bucket))
		} else {
			return nil, fmt.Errorf("校验 OSS bucket 失败: %w", err)
		}
	} else {
		logger.Info("OSS 连接成功", zap.String("bucket", cfg.Bucket), zap.String("location", loc))
	}

	return &OSS{bucket: bkt, endpoint: cfg.Endpoint, bucketName: cfg.Bucket}, nil
}

func (s *OSS) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	opts := []oss.Option{oss.WithContext(ctx)}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.bucket.PutObject(key, r, opts...); err != nil {
		return "", err
	}
	return s.publicURL(key), nil
}

func (s *OSS) Delete(ctx context.Context, key string) error {
	return s.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSS) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return s.bucket.SignURL(key, oss.HTTPGet, int64(ttl.Seconds()))
}

func (s *OSS) publicURL(key string) string {
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}
