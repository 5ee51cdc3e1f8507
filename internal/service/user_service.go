package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
	apperrors "eduinsight/backend/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrPhoneExists          = errors.New("手机号已被注册")
	ErrEmailExists          = errors.New("邮箱已被使用")
	ErrUsernameExists       = errors.New("用户名已被使用")
	ErrCannotDeleteSelf     = errors.New("不能删除当前登录账号")
	ErrCannotDeactivateSelf = errors.New("不能停用当前登录账号")
)

// UserService 用户管理业务接口（管理员）
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID uint) (*dto.UserResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, callerID uint) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uint, callerID uint) error
}

// TokenRevoker 使某个用户已签发的 Token 全部失效
type TokenRevoker interface {
	RevokeUserTokens(ctx context.Context, userID uint, ttl time.Duration) error
}

type userService struct {
	repo     *repository.Repository
	revoker  TokenRevoker
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewUserService 创建 UserService 实例
// tokenTTL 为 Access Token 有效期，吊销标记保留同样长的时间
func NewUserService(repo *repository.Repository, revoker TokenRevoker, tokenTTL time.Duration, logger *zap.Logger) UserService {
	return &userService{repo: repo, revoker: revoker, tokenTTL: tokenTTL, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{Role: req.Role, Keyword: req.Keyword, IsActive: req.IsActive}
	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID uint) (*dto.UserResponse, error) {
	if !model.IsValidRole(req.Role) {
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
		Role:         req.Role,
		IsActive:     true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUserError(ctx, s.repo, &req.Phone, req.Email, req.Username, 0)
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "user.create", OperatorID: callerID, TargetType: "user", TargetID: user.ID,
		Detail: map[string]any{"phone": user.Phone, "role": user.Role},
	})

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, callerID uint) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if id == callerID && req.IsActive != nil && !*req.IsActive {
		return nil, ErrCannotDeactivateSelf
	}
	if err := checkUserUnique(ctx, s.repo, req.Phone, req.Email, req.Username, id); err != nil {
		return nil, err
	}

	// 停用、改角色、改手机号或重置密码后，旧 Token 里的身份信息不再可信
	revoke := (req.IsActive != nil && !*req.IsActive && user.IsActive) ||
		(req.Role != nil && *req.Role != user.Role) ||
		(req.Phone != nil && *req.Phone != user.Phone) ||
		req.Password != nil

	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Username != nil {
		user.Username = req.Username
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Role != nil {
		if !model.IsValidRole(*req.Role) {
			return nil, ErrRoleNotAllowed
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			s.logger.Error("密码加密失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUserError(ctx, s.repo, req.Phone, req.Email, req.Username, id)
		}
		s.logger.Error("更新用户失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	if revoke {
		s.revokeTokens(ctx, id)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id uint, callerID uint) error {
	if id == callerID {
		return ErrCannotDeleteSelf
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.revokeTokens(ctx, id)

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "user.delete", OperatorID: callerID, TargetType: "user", TargetID: id,
		Detail: map[string]any{"phone": user.Phone},
	})
	return nil
}

// ── 内部方法 ──

// revokeTokens 吊销失败只记录；未启用 Redis 时旧 Token 要等到自然过期
func (s *userService) revokeTokens(ctx context.Context, userID uint) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUserTokens(ctx, userID, s.tokenTTL); err != nil {
		if errors.Is(err, apperrors.ErrNotConfigured) {
			return
		}
		s.logger.Warn("吊销用户 Token 失败", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *userService) getUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// checkUserUnique 校验手机号、邮箱、用户名唯一，excludeID 为更新时的自身 ID
func checkUserUnique(ctx context.Context, repo *repository.Repository, phone, email, username *string, excludeID uint) error {
	checks := []struct {
		value  *string
		lookup func(context.Context, string) (*model.User, error)
		errDup error
	}{
		{phone, repo.User.GetByPhone, ErrPhoneExists},
		{email, repo.User.GetByEmail, ErrEmailExists},
		{username, repo.User.GetByUsername, ErrUsernameExists},
	}

	for _, c := range checks {
		if c.value == nil || *c.value == "" {
			continue
		}
		existing, err := c.lookup(ctx, *c.value)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if existing.ID != excludeID {
			return c.errDup
		}
	}
	return nil
}

// duplicateUserError 唯一索引冲突后重新判定冲突列；判定不出时按手机号处理
func duplicateUserError(ctx context.Context, repo *repository.Repository, phone, email, username *string, excludeID uint) error {
	err := checkUserUnique(ctx, repo, phone, email, username, excludeID)
	if errors.Is(err, ErrEmailExists) || errors.Is(err, ErrUsernameExists) {
		return err
	}
	return ErrPhoneExists
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Phone:       u.Phone,
		Email:       u.Email,
		Username:    u.Username,
		Role:        u.Role,
		IsActive:    u.IsActive,
		FullName:    u.FullName,
		Avatar:      u.Avatar,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
