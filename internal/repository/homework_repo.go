package repository

import (
	"context"

	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
)

// HomeworkFilter 作业列表筛选条件
type HomeworkFilter struct {
	StudentID uint
	Subject   string
	Status    string
}

// HomeworkRepository 作业数据访问接口
type HomeworkRepository interface {
	Create(ctx context.Context, homework *model.Homework) error
	GetByID(ctx context.Context, id uint) (*model.Homework, error)
	// Grade 写入评分结果，只更新评分相关列
	Grade(ctx context.Context, homework *model.Homework) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter HomeworkFilter, offset, limit int) ([]model.Homework, int64, error)
}

type homeworkRepo struct {
	db *gorm.DB
}

// NewHomeworkRepo 创建 HomeworkRepository 实例
func NewHomeworkRepo(db *gorm.DB) HomeworkRepository {
	return &homeworkRepo{db: db}
}

func (r *homeworkRepo) Create(ctx context.Context, homework *model.Homework) error {
	return r.db.WithContext(ctx).Create(homework).Error
}

func (r *homeworkRepo) GetByID(ctx context.Context, id uint) (*model.Homework, error) {
	var homework model.Homework
	if err := r.db.WithContext(ctx).First(&homework, id).Error; err != nil {
		return nil, err
	}
	return &homework, nil
}

func (r *homeworkRepo) Grade(ctx context.Context, homework *model.Homework) error {
	return r.db.WithContext(ctx).
		Model(homework).
		Select("status", "score", "feedback", "grader_id", "graded_at").
		Updates(homework).Error
}

func (r *homeworkRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Homework{}, id).Error
}

func (r *homeworkRepo) List(ctx context.Context, filter HomeworkFilter, offset, limit int) ([]model.Homework, int64, error) {
	var list []model.Homework
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Homework{})
	if filter.StudentID != 0 {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.Subject != "" {
		db = db.Where("subject = ?", filter.Subject)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
