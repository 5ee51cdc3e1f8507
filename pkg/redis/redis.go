package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"eduinsight/backend/config"
	apperrors "eduinsight/backend/pkg/errors"
)

// Client Redis 客户端封装
// 用于 Token 黑名单、登录限流和监控面板的系统采样序列
// 所有方法对 nil 接收者安全：未启用 Redis 时返回 ErrNotConfigured 或降级结果
type Client struct {
	rdb    goredis.UniversalClient
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromUniversal 包装已有的 go-redis 客户端（测试或自定义部署使用）
func NewFromUniversal(rdb goredis.UniversalClient, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if c == nil {
		return apperrors.ErrNotConfigured
	}
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if c == nil {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const revokedBeforePrefix = "token:revoked_before:"

// RevokeUserTokens 记录吊销时间点，此前签发的 Token 全部失效
// JWT 的签发时间精确到秒，时间点取下一整秒，同一秒内签发的 Token 也一并失效
func (c *Client) RevokeUserTokens(ctx context.Context, userID uint, ttl time.Duration) error {
	if c == nil {
		return apperrors.ErrNotConfigured
	}
	if ttl <= 0 {
		return nil
	}
	cutoff := time.Now().Truncate(time.Second).Add(time.Second).Unix()
	return c.rdb.Set(ctx, revokedBeforePrefix+strconv.FormatUint(uint64(userID), 10), cutoff, ttl).Err()
}

// TokensRevokedBefore 返回用户 Token 的吊销时间点，未吊销时返回零值
func (c *Client) TokensRevokedBefore(ctx context.Context, userID uint) (time.Time, error) {
	if c == nil {
		return time.Time{}, nil
	}
	sec, err := c.rdb.Get(ctx, revokedBeforePrefix+strconv.FormatUint(uint64(userID), 10)).Int64()
	if errors.Is(err, goredis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}

// ── 限流 ──

// CheckRateLimit 基于有序集合的滑动窗口计数
// 返回 true 表示本次请求被允许
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if c == nil {
		return true, nil
	}

	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if card.Val() >= int64(limit) {
		return false, nil
	}

	pipe = c.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ── 序列 ──

// PushSample 追加一条 JSON 样本并裁剪列表长度，保留最近 maxLen 条
func (c *Client) PushSample(ctx context.Context, key string, sample []byte, maxLen int) error {
	if c == nil {
		return apperrors.ErrNotConfigured
	}
	pipe := c.rdb.TxPipeline()
	pipe.RPush(ctx, key, sample)
	pipe.LTrim(ctx, key, int64(-maxLen), -1)
	_, err := pipe.Exec(ctx)
	return err
}

// RangeSamples 按时间顺序返回列表中的全部样本
func (c *Client) RangeSamples(ctx context.Context, key string) ([]string, error) {
	if c == nil {
		return nil, apperrors.ErrNotConfigured
	}
	return c.rdb.LRange(ctx, key, 0, -1).Result()
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return apperrors.ErrNotConfigured
	}
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
