package repository

import (
	"context"

	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
)

// StudentFilter 学生列表筛选条件
type StudentFilter struct {
	Grade     string
	ClassName string
	Keyword   string // 匹配姓名、学号
}

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id uint) (*model.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.Student, error)
	// GetByPhone 按联系电话查找学生档案，学生账号以手机号关联档案
	GetByPhone(ctx context.Context, phone string) (*model.Student, error)
	// ExistingStudentIDs 返回给定学号中已存在于库中的部分
	ExistingStudentIDs(ctx context.Context, studentIDs []string) ([]string, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter StudentFilter, offset, limit int) ([]model.Student, int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByPhone(ctx context.Context, phone string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("id").
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) ExistingStudentIDs(ctx context.Context, studentIDs []string) ([]string, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var existing []string
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id IN ?", studentIDs).
		Pluck("student_id", &existing).Error
	return existing, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

// Delete 删除学生，选课与学习记录由外键级联删除
func (r *studentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Student{}, id).Error
}

func (r *studentRepo) List(ctx context.Context, filter StudentFilter, offset, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Student{})
	if filter.Grade != "" {
		db = db.Where("grade = ?", filter.Grade)
	}
	if filter.ClassName != "" {
		db = db.Where("class_name = ?", filter.ClassName)
	}
	if filter.Keyword != "" {
		kw := likePattern(filter.Keyword)
		db = db.Where("name LIKE ? OR student_id LIKE ?", kw, kw)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("id DESC").
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}
