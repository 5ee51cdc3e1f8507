package repository

import (
	"context"

	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
)

// SystemLogFilter 审计日志筛选条件
type SystemLogFilter struct {
	Action string
	Level  string
}

// SystemLogRepository 审计日志数据访问接口
type SystemLogRepository interface {
	Create(ctx context.Context, log *model.SystemLog) error
	List(ctx context.Context, filter SystemLogFilter, offset, limit int) ([]model.SystemLog, int64, error)
}

type systemLogRepo struct {
	db *gorm.DB
}

// NewSystemLogRepo 创建 SystemLogRepository 实例
func NewSystemLogRepo(db *gorm.DB) SystemLogRepository {
	return &systemLogRepo{db: db}
}

func (r *systemLogRepo) Create(ctx context.Context, log *model.SystemLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *systemLogRepo) List(ctx context.Context, filter SystemLogFilter, offset, limit int) ([]model.SystemLog, int64, error) {
	var logs []model.SystemLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SystemLog{})
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.Level != "" {
		db = db.Where("level = ?", filter.Level)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
