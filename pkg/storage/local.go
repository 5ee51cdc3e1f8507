package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const downloadAudience = "download"

// Local 本地目录存储
// 文件不以静态目录公开，只能凭 SignedURL 签发的限时令牌经 Resolve 读取
type Local struct {
	dir       string
	publicURL string
	signKey   []byte
}

// NewLocal 创建本地存储，目录不存在时自动创建
func NewLocal(dir, publicURL string, signKey []byte) (*Local, error) {
	if len(signKey) == 0 {
		return nil, errors.New("本地存储缺少下载签名密钥")
	}
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &Local{dir: dir, publicURL: strings.TrimRight(publicURL, "/"), signKey: signKey}, nil
}

// Dir 返回存储根目录
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("非法的对象键: %q", key)
	}
	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	p, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(p)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(p)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.url(key), nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// SignedURL 签发限时下载地址，令牌为 HS256 JWT，sub 为对象键
func (l *Local) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	key = strings.TrimLeft(key, "/")
	now := time.Now()
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.RegisteredClaims{
		Subject:   key,
		Audience:  jwtv5.ClaimStrings{downloadAudience},
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
	}).SignedString(l.signKey)
	if err != nil {
		return "", fmt.Errorf("签发下载令牌失败: %w", err)
	}
	return l.url(key) + "?token=" + url.QueryEscape(token), nil
}

// Resolve 校验下载令牌，返回对象在磁盘上的路径
func (l *Local) Resolve(key, token string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if token == "" {
		return "", ErrInvalidToken
	}

	claims := &jwtv5.RegisteredClaims{}
	_, err := jwtv5.ParseWithClaims(token, claims, func(*jwtv5.Token) (interface{}, error) {
		return l.signKey, nil
	},
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithAudience(downloadAudience),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil || claims.Subject != key {
		return "", ErrInvalidToken
	}
	return l.path(key)
}

func (l *Local) url(key string) string {
	return l.publicURL + "/" + strings.TrimLeft(key, "/")
}
