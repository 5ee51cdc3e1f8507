package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
)

// ── 学习记录模块业务错误 ──

var (
	ErrLearningRecordNotFound = errors.New("学习记录不存在")
	ErrInvalidTimeRange       = errors.New("结束时间不能早于开始时间")
	ErrInvalidContentType     = errors.New("学习内容类型无效")
)

// LearningRecordService 学习记录业务接口
type LearningRecordService interface {
	List(ctx context.Context, req *dto.LearningRecordListRequest) ([]model.LearningRecord, int64, error)
	Create(ctx context.Context, req *dto.CreateLearningRecordRequest) (*model.LearningRecord, error)
	Delete(ctx context.Context, id uint) error
	// StudentCalendar 以 iCalendar 格式导出学生的学习记录
	StudentCalendar(ctx context.Context, studentID uint) (string, error)
	StudentProgress(ctx context.Context, studentID uint) (*dto.StudentProgressResponse, error)
}

type learningRecordService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLearningRecordService 创建 LearningRecordService 实例
func NewLearningRecordService(repo *repository.Repository, logger *zap.Logger) LearningRecordService {
	return &learningRecordService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *learningRecordService) List(ctx context.Context, req *dto.LearningRecordListRequest) ([]model.LearningRecord, int64, error) {
	filter := repository.LearningRecordFilter{StudentID: req.StudentID, CourseID: req.CourseID}
	if req.ContentType != "" {
		ct, err := model.ParseContentType(req.ContentType)
		if err != nil {
			return nil, 0, ErrInvalidContentType
		}
		filter.ContentType = ct
	}

	records, total, err := s.repo.LearningRecord.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学习记录失败", zap.Error(err))
		return nil, 0, err
	}
	return records, total, nil
}

// ────────────────────── Create ──────────────────────

func (s *learningRecordService) Create(ctx context.Context, req *dto.CreateLearningRecordRequest) (*model.LearningRecord, error) {
	ct, err := model.ParseContentType(req.ContentType)
	if err != nil {
		return nil, ErrInvalidContentType
	}
	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	if _, err := s.repo.Student.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	record := &model.LearningRecord{
		StudentID:   req.StudentID,
		CourseID:    req.CourseID,
		ContentType: ct,
		ContentID:   req.ContentID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Score:       req.Score,
	}
	switch {
	case req.Duration != nil:
		record.Duration = *req.Duration
	case req.EndTime != nil:
		record.Duration = int(req.EndTime.Sub(req.StartTime).Seconds())
	}
	if req.Progress != nil {
		record.Progress = *req.Progress
	}

	if err := s.repo.LearningRecord.Create(ctx, record); err != nil {
		s.logger.Error("创建学习记录失败", zap.Error(err))
		return nil, err
	}
	return record, nil
}

// ────────────────────── Delete ──────────────────────

func (s *learningRecordService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.LearningRecord.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLearningRecordNotFound
		}
		s.logger.Error("查询学习记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.LearningRecord.Delete(ctx, id); err != nil {
		s.logger.Error("删除学习记录失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Calendar ──────────────────────

// StudentCalendar 每条有结束时间的记录生成一个 VEVENT
func (s *learningRecordService) StudentCalendar(ctx context.Context, studentID uint) (string, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return "", err
	}

	records, err := s.repo.LearningRecord.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学习记录失败", zap.Uint("student_id", studentID), zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//EduInsight//Study Calendar//CN")
	cal.SetXWRCalName(fmt.Sprintf("%s 的学习日历", student.Name))

	now := time.Now()
	for _, r := range records {
		if r.EndTime == nil {
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("learning-record-%d@eduinsight", r.ID))
		event.SetDtStampTime(now)
		event.SetCreatedTime(r.CreatedAt)
		event.SetStartAt(r.StartTime)
		event.SetEndAt(*r.EndTime)
		event.SetSummary(calendarSummary(&r))
		event.SetDescription(fmt.Sprintf("内容: %s，进度: %.0f%%", r.ContentID, r.Progress))
	}

	return cal.Serialize(), nil
}

func calendarSummary(r *model.LearningRecord) string {
	label := map[model.ContentType]string{
		model.ContentVideo:    "视频学习",
		model.ContentQuiz:     "测验",
		model.ContentReading:  "阅读",
		model.ContentExercise: "练习",
	}[r.ContentType]
	if r.Course != nil {
		return r.Course.Name + " · " + label
	}
	return label
}

// ────────────────────── Progress ──────────────────────

func (s *learningRecordService) StudentProgress(ctx context.Context, studentID uint) (*dto.StudentProgressResponse, error) {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	stats, err := s.repo.LearningRecord.StatsByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("统计学习进度失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生选课失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	var active int64
	for _, e := range enrollments {
		if e.Status == model.EnrollmentActive {
			active++
		}
	}

	return &dto.StudentProgressResponse{
		StudentID:        studentID,
		TotalRecords:     stats.Total,
		CompletedRecords: stats.Completed,
		AverageProgress:  stats.AvgProgress,
		AverageScore:     stats.AvgScore,
		TotalDuration:    stats.TotalDuration,
		ActiveCourses:    active,
	}, nil
}
