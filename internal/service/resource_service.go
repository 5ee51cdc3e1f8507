package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
	"eduinsight/backend/pkg/contentcheck"
	apperrors "eduinsight/backend/pkg/errors"
	"eduinsight/backend/pkg/storage"
)

// ── 资源模块业务错误 ──

var (
	ErrResourceNotFound        = errors.New("资源不存在")
	ErrResourceAlreadyReviewed = errors.New("资源已审核，不能重复审核")
	ErrResourceNotApproved     = errors.New("资源未通过审核，暂不可下载")
	ErrFileTypeNotAllowed      = errors.New("不支持的文件类型")
	ErrInvalidReviewStatus     = errors.New("审核结果只能是 approved 或 rejected")
	ErrDownloadLinkInvalid     = errors.New("下载链接无效或已过期")
	ErrContentCheckUnavailable = errors.New("内容检查服务未配置")
	ErrContentCheckFailed      = errors.New("内容检查服务调用失败")
)

// ContentChecker 资源内容自动检查
type ContentChecker interface {
	Check(ctx context.Context, url string) (*contentcheck.Result, error)
}

// 各资源类型允许的扩展名
var allowedExtensions = map[string]map[string]bool{
	model.ResourceVideo: {
		".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
	},
	model.ResourceDocument: {
		".pdf": true, ".doc": true, ".docx": true, ".ppt": true, ".pptx": true,
		".xls": true, ".xlsx": true, ".txt": true, ".md": true,
	},
}

// UploadInput 上传资源的输入
type UploadInput struct {
	Name        string
	Type        string
	Filename    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// ResourceService 资源与审核业务接口
type ResourceService interface {
	List(ctx context.Context, req *dto.ResourceListRequest) ([]model.Resource, int64, error)
	GetByID(ctx context.Context, id uint) (*model.Resource, error)
	Create(ctx context.Context, req *dto.CreateResourceRequest, uploaderID uint) (*model.Resource, error)
	Upload(ctx context.Context, in *UploadInput, uploaderID uint) (*model.Resource, error)
	Update(ctx context.Context, id uint, req *dto.UpdateResourceRequest) (*model.Resource, error)
	Review(ctx context.Context, id uint, req *dto.ReviewResourceRequest, reviewerID uint) (*model.Resource, error)
	Download(ctx context.Context, id uint) (*dto.DownloadResponse, error)
	LocalFile(ctx context.Context, key, token string) (string, error)
	AutoReview(ctx context.Context, id uint, operatorID uint) (*contentcheck.Result, error)
	Delete(ctx context.Context, id uint, callerID uint) error
}

type resourceService struct {
	cfg     *config.StorageConfig
	baseURL string
	repo    *repository.Repository
	store   storage.Storage
	checker ContentChecker
	logger  *zap.Logger
}

// NewResourceService 创建 ResourceService 实例
// baseURL 用于把本地存储的相对地址补全给外部检查服务
func NewResourceService(
	cfg *config.StorageConfig,
	baseURL string,
	repo *repository.Repository,
	store storage.Storage,
	checker ContentChecker,
	logger *zap.Logger,
) ResourceService {
	return &resourceService{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		repo:    repo,
		store:   store,
		checker: checker,
		logger:  logger,
	}
}

// ────────────────────── List ──────────────────────

func (s *resourceService) List(ctx context.Context, req *dto.ResourceListRequest) ([]model.Resource, int64, error) {
	filter := repository.ResourceFilter{Type: req.Type, Status: req.Status, Keyword: req.Keyword}
	resources, total, err := s.repo.Resource.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询资源列表失败", zap.Error(err))
		return nil, 0, err
	}
	return resources, total, nil
}

// ────────────────────── GetByID ──────────────────────

// GetByID 查询资源详情并累计浏览次数
func (s *resourceService) GetByID(ctx context.Context, id uint) (*model.Resource, error) {
	resource, err := s.getResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Resource.IncrementView(ctx, id); err != nil {
		s.logger.Warn("累计浏览次数失败", zap.Uint("id", id), zap.Error(err))
	} else {
		resource.ViewCount++
	}
	return resource, nil
}

// ────────────────────── Create ──────────────────────

// Create 登记外部 URL 资源，状态固定为 pending
func (s *resourceService) Create(ctx context.Context, req *dto.CreateResourceRequest, uploaderID uint) (*model.Resource, error) {
	resource := &model.Resource{
		Name:   req.Name,
		Type:   req.Type,
		Status: model.ResourcePending,
		URL:    req.URL,
	}
	if uploaderID != 0 {
		resource.UploaderID = &uploaderID
	}

	if err := s.repo.Resource.Create(ctx, resource); err != nil {
		s.logger.Error("创建资源失败", zap.Error(err))
		return nil, err
	}
	return resource, nil
}

// ────────────────────── Upload ──────────────────────

func (s *resourceService) Upload(ctx context.Context, in *UploadInput, uploaderID uint) (*model.Resource, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	allowed, ok := allowedExtensions[in.Type]
	if !ok || !allowed[ext] {
		return nil, ErrFileTypeNotAllowed
	}

	key := storage.ObjectKey("resources/"+in.Type, in.Filename)
	url, err := s.store.Put(ctx, key, in.Reader, in.Size, in.ContentType)
	if err != nil {
		s.logger.Error("保存资源文件失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(in.Filename), filepath.Ext(in.Filename))
	}
	meta, _ := json.Marshal(map[string]any{
		"original_filename": filepath.Base(in.Filename),
		"extension":         strings.TrimPrefix(ext, "."),
	})

	resource := &model.Resource{
		Name:       name,
		Type:       in.Type,
		Status:     model.ResourcePending,
		URL:        url,
		StorageKey: &key,
		FileSize:   in.Size,
		Metadata:   datatypes.JSON(meta),
	}
	if in.ContentType != "" {
		ct := in.ContentType
		resource.MimeType = &ct
	}
	if uploaderID != 0 {
		resource.UploaderID = &uploaderID
	}

	if err := s.repo.Resource.Create(ctx, resource); err != nil {
		s.logger.Error("创建资源失败", zap.Error(err))
		s.removeObject(ctx, key)
		return nil, err
	}
	return resource, nil
}

// ────────────────────── Update ──────────────────────

func (s *resourceService) Update(ctx context.Context, id uint, req *dto.UpdateResourceRequest) (*model.Resource, error) {
	resource, err := s.getResource(ctx, id)
	if err != nil {
		return nil, err
	}

	resource.Name = req.Name
	if err := s.repo.Resource.Update(ctx, resource); err != nil {
		s.logger.Error("更新资源失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return resource, nil
}

// ────────────────────── Review ──────────────────────

// Review 仅允许 pending → approved/rejected，已审核的资源保持原状态
func (s *resourceService) Review(ctx context.Context, id uint, req *dto.ReviewResourceRequest, reviewerID uint) (*model.Resource, error) {
	if req.Status != model.ResourceApproved && req.Status != model.ResourceRejected {
		return nil, ErrInvalidReviewStatus
	}

	resource, err := s.getResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource.Status != model.ResourcePending {
		return nil, ErrResourceAlreadyReviewed
	}

	now := time.Now()
	resource.Status = req.Status
	resource.ReviewerID = &reviewerID
	resource.ReviewTime = &now
	resource.ReviewComment = req.Comment

	if err := s.repo.Resource.UpdateStatusIf(ctx, resource, model.ResourcePending); err != nil {
		if errors.Is(err, apperrors.ErrStatusConflict) {
			return nil, ErrResourceAlreadyReviewed
		}
		s.logger.Error("更新审核结果失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	detail := map[string]any{"status": req.Status}
	if req.Comment != nil {
		detail["comment"] = *req.Comment
	}
	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "resource.review", OperatorID: reviewerID, TargetType: "resource", TargetID: id,
		Detail: detail,
	})

	return resource, nil
}

// ────────────────────── Download ──────────────────────

func (s *resourceService) Download(ctx context.Context, id uint) (*dto.DownloadResponse, error) {
	resource, err := s.getResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource.Status != model.ResourceApproved {
		return nil, ErrResourceNotApproved
	}

	resp := &dto.DownloadResponse{URL: resource.URL}
	if resource.StorageKey != nil && s.store != nil {
		url, err := s.store.SignedURL(ctx, *resource.StorageKey, s.cfg.PresignTTL)
		if err != nil {
			s.logger.Error("生成下载地址失败", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
		resp.URL = url
		resp.ExpiresIn = int(s.cfg.PresignTTL.Seconds())
	}

	if err := s.repo.Resource.IncrementDownload(ctx, id); err != nil {
		s.logger.Error("累计下载次数失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// LocalFile 校验本地存储的下载令牌，返回文件路径
func (s *resourceService) LocalFile(_ context.Context, key, token string) (string, error) {
	resolver, ok := s.store.(storage.FileResolver)
	if !ok {
		return "", ErrResourceNotFound
	}
	path, err := resolver.Resolve(key, token)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidToken) {
			return "", ErrDownloadLinkInvalid
		}
		return "", err
	}
	return path, nil
}

// ────────────────────── AutoReview ──────────────────────

// AutoReview 调用内容检查服务，结果写入 metadata.auto_review
// 只给出建议，审核状态仍由管理员决定
func (s *resourceService) AutoReview(ctx context.Context, id uint, operatorID uint) (*contentcheck.Result, error) {
	if s.checker == nil {
		return nil, ErrContentCheckUnavailable
	}
	resource, err := s.getResource(ctx, id)
	if err != nil {
		return nil, err
	}

	target := resource.URL
	if resource.StorageKey != nil && s.store != nil {
		if target, err = s.store.SignedURL(ctx, *resource.StorageKey, s.cfg.PresignTTL); err != nil {
			s.logger.Error("生成检查地址失败", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
	}
	if strings.HasPrefix(target, "/") {
		target = s.baseURL + target
	}

	result, err := s.checker.Check(ctx, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotConfigured) {
			return nil, ErrContentCheckUnavailable
		}
		s.logger.Warn("内容检查失败", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrContentCheckFailed, err)
	}

	meta := map[string]any{}
	if len(resource.Metadata) > 0 {
		if err := json.Unmarshal(resource.Metadata, &meta); err != nil {
			s.logger.Warn("资源元数据无法解析，将被覆盖", zap.Uint("id", id), zap.Error(err))
			meta = map[string]any{}
		}
	}
	meta["auto_review"] = map[string]any{
		"sensitive_words":  result.SensitiveWords,
		"similarity_score": result.Similarity,
		"quality_score":    result.Quality,
		"recommendation":   result.Recommendation,
		"checked_at":       time.Now().Format(time.RFC3339),
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Resource.UpdateMetadata(ctx, id, datatypes.JSON(b)); err != nil {
		s.logger.Error("保存检查结果失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "resource.auto_review", OperatorID: operatorID, TargetType: "resource", TargetID: id,
		Detail: map[string]any{"recommendation": result.Recommendation},
	})
	return result, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除资源记录，存储对象尽力删除
func (s *resourceService) Delete(ctx context.Context, id uint, callerID uint) error {
	resource, err := s.getResource(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Resource.Delete(ctx, id); err != nil {
		s.logger.Error("删除资源失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if resource.StorageKey != nil {
		s.removeObject(ctx, *resource.StorageKey)
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "resource.delete", OperatorID: callerID, TargetType: "resource", TargetID: id,
		Detail: map[string]any{"name": resource.Name},
	})
	return nil
}

// ── 内部方法 ──

func (s *resourceService) getResource(ctx context.Context, id uint) (*model.Resource, error) {
	resource, err := s.repo.Resource.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("查询资源失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return resource, nil
}

func (s *resourceService) removeObject(ctx context.Context, key string) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("删除存储对象失败", zap.String("key", key), zap.Error(err))
	}
}
