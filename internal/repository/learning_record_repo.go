package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
)

// LearningRecordFilter 学习记录筛选条件
type LearningRecordFilter struct {
	StudentID   *uint
	CourseID    *uint
	ContentType model.ContentType
}

// LearningStats 单个学生的学习汇总
type LearningStats struct {
	Total         int64
	Completed     int64 // progress >= 100
	AvgProgress   float64
	AvgScore      *float64
	TotalDuration int64
}

// DailyActivityRow 按天聚合的学习活跃度
type DailyActivityRow struct {
	Day            string
	ActiveStudents int64
	Records        int64
}

// LearningRecordRepository 学习记录数据访问接口
type LearningRecordRepository interface {
	Create(ctx context.Context, record *model.LearningRecord) error
	GetByID(ctx context.Context, id uint) (*model.LearningRecord, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter LearningRecordFilter, offset, limit int) ([]model.LearningRecord, int64, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.LearningRecord, error)
	StatsByStudent(ctx context.Context, studentID uint) (*LearningStats, error)
	DailyActivity(ctx context.Context, since time.Time) ([]DailyActivityRow, error)
}

type learningRecordRepo struct {
	db *gorm.DB
}

// NewLearningRecordRepo 创建 LearningRecordRepository 实例
func NewLearningRecordRepo(db *gorm.DB) LearningRecordRepository {
	return &learningRecordRepo{db: db}
}

func (r *learningRecordRepo) Create(ctx context.Context, record *model.LearningRecord) error {
	return r.db.WithContext(ctx).Omit("Course").Create(record).Error
}

func (r *learningRecordRepo) GetByID(ctx context.Context, id uint) (*model.LearningRecord, error) {
	var record model.LearningRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *learningRecordRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.LearningRecord{}, id).Error
}

func (r *learningRecordRepo) List(ctx context.Context, filter LearningRecordFilter, offset, limit int) ([]model.LearningRecord, int64, error) {
	var records []model.LearningRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LearningRecord{})
	if filter.StudentID != nil {
		db = db.Where("student_id = ?", *filter.StudentID)
	}
	if filter.CourseID != nil {
		db = db.Where("course_id = ?", *filter.CourseID)
	}
	if filter.ContentType != "" {
		db = db.Where("content_type = ?", filter.ContentType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("start_time DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *learningRecordRepo) ListByStudent(ctx context.Context, studentID uint) ([]model.LearningRecord, error) {
	var records []model.LearningRecord
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("start_time ASC").
		Find(&records).Error
	return records, err
}

func (r *learningRecordRepo) StatsByStudent(ctx context.Context, studentID uint) (*LearningStats, error) {
	var row struct {
		Total         int64
		Completed     int64
		AvgProgress   *float64
		AvgScore      *float64
		TotalDuration *int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.LearningRecord{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN progress >= 100 THEN 1 ELSE 0 END), 0) AS completed,
			AVG(progress) AS avg_progress,
			AVG(score) AS avg_score,
			SUM(duration) AS total_duration`).
		Where("student_id = ?", studentID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &LearningStats{Total: row.Total, Completed: row.Completed, AvgScore: row.AvgScore}
	if row.AvgProgress != nil {
		stats.AvgProgress = *row.AvgProgress
	}
	if row.TotalDuration != nil {
		stats.TotalDuration = *row.TotalDuration
	}
	return stats, nil
}

func (r *learningRecordRepo) DailyActivity(ctx context.Context, since time.Time) ([]DailyActivityRow, error) {
	var rows []DailyActivityRow
	err := r.db.WithContext(ctx).
		Model(&model.LearningRecord{}).
		Select("DATE_FORMAT(start_time, '%Y-%m-%d') AS day, COUNT(DISTINCT student_id) AS active_students, COUNT(*) AS records").
		Where("start_time >= ?", since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
