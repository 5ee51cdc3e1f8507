package repository

import (
	"context"

	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
)

// DataImportRepository 导入记录数据访问接口
type DataImportRepository interface {
	Create(ctx context.Context, record *model.DataImport) error
	Update(ctx context.Context, record *model.DataImport) error
	List(ctx context.Context, status string, offset, limit int) ([]model.DataImport, int64, error)
}

type dataImportRepo struct {
	db *gorm.DB
}

// NewDataImportRepo 创建 DataImportRepository 实例
func NewDataImportRepo(db *gorm.DB) DataImportRepository {
	return &dataImportRepo{db: db}
}

func (r *dataImportRepo) Create(ctx context.Context, record *model.DataImport) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *dataImportRepo) Update(ctx context.Context, record *model.DataImport) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *dataImportRepo) List(ctx context.Context, status string, offset, limit int) ([]model.DataImport, int64, error) {
	var records []model.DataImport
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DataImport{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
