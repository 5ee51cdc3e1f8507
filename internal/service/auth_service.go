package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
	apperrors "eduinsight/backend/pkg/errors"
	"eduinsight/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("手机号或密码错误")
	ErrAccountDisabled    = errors.New("账号已停用")
	ErrRoleNotAllowed     = errors.New("不允许注册该角色")
)

// TokenBlacklist Token 黑名单存储（Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Logout(ctx context.Context, session *Session) error
	Me(ctx context.Context, userID uint) (*dto.UserResponse, error)
	// EnsureAdmin 确保配置的管理员账号存在，返回是否新建
	EnsureAdmin(ctx context.Context) (bool, error)
}

// Session 当前请求的认证会话，由 JWT 中间件构造
type Session struct {
	UserID    uint
	Phone     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin 是否管理员
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == model.RoleAdmin
}

// IsStaff 是否管理员或教师
func (s *Session) IsStaff() bool {
	return s != nil && (s.Role == model.RoleAdmin || s.Role == model.RoleTeacher)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// 3. 签发 Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Phone, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	// 4. 记录登录时间，失败不影响登录
	now := time.Now()
	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("更新最后登录时间失败", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if role != model.RoleStudent && role != model.RoleTeacher {
		return nil, ErrRoleNotAllowed
	}

	if err := checkUserUnique(ctx, s.repo, &req.Phone, req.Email, req.Username, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Phone:        req.Phone,
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUserError(ctx, s.repo, &req.Phone, req.Email, req.Username, 0)
		}
		s.logger.Error("注册用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新用户注册", zap.Uint("user_id", user.ID), zap.String("role", role))
	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// ────────────────────── Logout ──────────────────────

// Logout 将当前 Token 加入黑名单直至过期；未启用 Redis 时仅由客户端丢弃 Token
func (s *authService) Logout(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if err := s.blacklist.BlacklistToken(ctx, session.TokenID, ttl); err != nil {
		if errors.Is(err, apperrors.ErrNotConfigured) {
			s.logger.Warn("Redis 未启用，Token 将在过期前保持有效", zap.Uint("user_id", session.UserID))
			return nil
		}
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── EnsureAdmin ──────────────────────

func (s *authService) EnsureAdmin(ctx context.Context) (bool, error) {
	phone := s.cfg.Auth.AdminPhone
	if phone == "" {
		return false, nil
	}

	_, err := s.repo.User.GetByPhone(ctx, phone)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := hashPassword(s.cfg.Auth.AdminPassword)
	if err != nil {
		return false, err
	}
	name := "系统管理员"
	admin := &model.User{
		Phone:        phone,
		FullName:     &name,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return false, err
	}

	s.logger.Info("已创建初始管理员账号", zap.String("phone", phone))
	return true, nil
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
