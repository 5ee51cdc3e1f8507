package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eduinsight/backend/config"
)

// Storage 资源文件存储抽象
// 本地目录与阿里云 OSS 两种实现
type Storage interface {
	// Put 写入对象，返回可公开访问的 URL
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete 删除对象，对象不存在时不报错
	Delete(ctx context.Context, key string) error
	// SignedURL 返回带时效的下载地址
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// FileResolver 由服务自身提供文件下载的存储实现（本地目录）
type FileResolver interface {
	Resolve(key, token string) (string, error)
}

// ErrInvalidToken 下载令牌缺失、伪造、过期或与对象不符
var ErrInvalidToken = errors.New("下载链接无效或已过期")

// New 按配置创建存储实现
func New(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.PublicURL, []byte(cfg.SigningKey))
	case "oss":
		return NewOSS(&cfg.OSS, logger)
	default:
		return nil, fmt.Errorf("未知的存储类型: %s", cfg.Provider)
	}
}

// ObjectKey 生成对象键：<prefix>/<yyyy/mm>/<uuid><ext>
// 原始文件名只保留扩展名，避免路径注入
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	now := time.Now()
	return fmt.Sprintf("%s/%04d/%02d/%s%s", strings.Trim(prefix, "/"), now.Year(), int(now.Month()), uuid.NewString(), ext)
}
