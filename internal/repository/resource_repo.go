package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
	apperrors "eduinsight/backend/pkg/errors"
)

// ResourceFilter 资源列表筛选条件
type ResourceFilter struct {
	Type    string
	Status  string
	Keyword string
}

// ResourceTotals 资源计数汇总
type ResourceTotals struct {
	Downloads int64
	Views     int64
}

// ResourceRepository 资源数据访问接口
type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id uint) (*model.Resource, error)
	Update(ctx context.Context, resource *model.Resource) error
	UpdateStatusIf(ctx context.Context, resource *model.Resource, from string) error
	UpdateMetadata(ctx context.Context, id uint, metadata datatypes.JSON) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ResourceFilter, offset, limit int) ([]model.Resource, int64, error)
	IncrementDownload(ctx context.Context, id uint) error
	IncrementView(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
	Totals(ctx context.Context) (*ResourceTotals, error)
	TopByDownloads(ctx context.Context, n int) ([]model.Resource, error)
}

type resourceRepo struct {
	db *gorm.DB
}

// NewResourceRepo 创建 ResourceRepository 实例
func NewResourceRepo(db *gorm.DB) ResourceRepository {
	return &resourceRepo{db: db}
}

func (r *resourceRepo) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepo) GetByID(ctx context.Context, id uint) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// Update 只写名称；审核状态、元数据与计数器各有专门的更新方法
func (r *resourceRepo) Update(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).
		Model(resource).
		Select("name").
		Updates(resource).Error
}

func (r *resourceRepo) UpdateMetadata(ctx context.Context, id uint, metadata datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("id = ?", id).
		Update("metadata", metadata).Error
}

// UpdateStatusIf 仅当库中状态仍为 from 时写入审核结果，否则返回 ErrStatusConflict
func (r *resourceRepo) UpdateStatusIf(ctx context.Context, resource *model.Resource, from string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("id = ? AND status = ?", resource.ID, from).
		Updates(map[string]interface{}{
			"status":         resource.Status,
			"reviewer_id":    resource.ReviewerID,
			"review_time":    resource.ReviewTime,
			"review_comment": resource.ReviewComment,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrStatusConflict
	}
	return nil
}

func (r *resourceRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Resource{}, id).Error
}

func (r *resourceRepo) List(ctx context.Context, filter ResourceFilter, offset, limit int) ([]model.Resource, int64, error) {
	var resources []model.Resource
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Resource{})
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		db = db.Where("name LIKE ?", likePattern(filter.Keyword))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&resources).Error; err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

// IncrementDownload 原子自增下载次数，并发下载不丢计数
func (r *resourceRepo) IncrementDownload(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

func (r *resourceRepo) IncrementView(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *resourceRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countBy(r.db.WithContext(ctx).Model(&model.Resource{}), "status")
}

func (r *resourceRepo) CountByType(ctx context.Context) (map[string]int64, error) {
	return countBy(r.db.WithContext(ctx).Model(&model.Resource{}), "type")
}

func (r *resourceRepo) Totals(ctx context.Context) (*ResourceTotals, error) {
	var totals ResourceTotals
	err := r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Select("COALESCE(SUM(download_count), 0) AS downloads, COALESCE(SUM(view_count), 0) AS views").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *resourceRepo) TopByDownloads(ctx context.Context, n int) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.db.WithContext(ctx).
		Order("download_count DESC, id DESC").
		Limit(n).
		Find(&resources).Error
	return resources, err
}
