package repository

import (
	"context"

	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
	apperrors "eduinsight/backend/pkg/errors"
)

// AIModelFilter 模型列表筛选条件
type AIModelFilter struct {
	Type   string
	Status string
}

// AIModelRepository 分析模型数据访问接口
type AIModelRepository interface {
	Create(ctx context.Context, m *model.AIModel) error
	GetByID(ctx context.Context, id uint) (*model.AIModel, error)
	Update(ctx context.Context, m *model.AIModel) error
	UpdateStatusIf(ctx context.Context, m *model.AIModel, from string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter AIModelFilter, offset, limit int) ([]model.AIModel, int64, error)
	ListAll(ctx context.Context) ([]model.AIModel, error)
}

type aiModelRepo struct {
	db *gorm.DB
}

// NewAIModelRepo 创建 AIModelRepository 实例
func NewAIModelRepo(db *gorm.DB) AIModelRepository {
	return &aiModelRepo{db: db}
}

func (r *aiModelRepo) Create(ctx context.Context, m *model.AIModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *aiModelRepo) GetByID(ctx context.Context, id uint) (*model.AIModel, error) {
	var m model.AIModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Update 写入名称、准确率与超参数；状态只经 UpdateStatusIf 变更
func (r *aiModelRepo) Update(ctx context.Context, m *model.AIModel) error {
	return r.db.WithContext(ctx).
		Model(m).
		Select("name", "accuracy", "hyperparameters").
		Updates(m).Error
}

// UpdateStatusIf 以 status = from 为条件更新训练状态，未命中返回 ErrStatusConflict
func (r *aiModelRepo) UpdateStatusIf(ctx context.Context, m *model.AIModel, from string) error {
	result := r.db.WithContext(ctx).
		Model(&model.AIModel{}).
		Where("id = ? AND status = ?", m.ID, from).
		Updates(map[string]interface{}{
			"status":          m.Status,
			"last_trained_at": m.LastTrainedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrStatusConflict
	}
	return nil
}

func (r *aiModelRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.AIModel{}, id).Error
}

func (r *aiModelRepo) List(ctx context.Context, filter AIModelFilter, offset, limit int) ([]model.AIModel, int64, error) {
	var models []model.AIModel
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AIModel{})
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	return models, total, nil
}

func (r *aiModelRepo) ListAll(ctx context.Context) ([]model.AIModel, error) {
	var models []model.AIModel
	err := r.db.WithContext(ctx).Order("id DESC").Find(&models).Error
	return models, err
}
