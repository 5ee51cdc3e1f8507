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
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrCourseCodeExists   = errors.New("课程代码已存在")
	ErrEnrollmentExists   = errors.New("该学生已选修此课程")
	ErrEnrollmentNotFound = errors.New("选课记录不存在")
)

// CourseService 课程与选课业务接口
type CourseService interface {
	List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, int64, error)
	GetByID(ctx context.Context, id uint) (*model.Course, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error)
	Update(ctx context.Context, id uint, req *dto.UpdateCourseRequest) (*model.Course, error)
	Delete(ctx context.Context, id uint, callerID uint) error

	ListEnrollments(ctx context.Context, courseID uint) ([]model.Enrollment, error)
	ListStudentEnrollments(ctx context.Context, studentID uint) ([]model.Enrollment, error)
	Enroll(ctx context.Context, courseID uint, req *dto.EnrollRequest) (*model.Enrollment, error)
	UpdateEnrollment(ctx context.Context, courseID, studentID uint, req *dto.UpdateEnrollmentRequest) (*model.Enrollment, error)
	Unenroll(ctx context.Context, courseID, studentID uint) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, int64, error) {
	filter := repository.CourseFilter{TeacherID: req.TeacherID, Keyword: req.Keyword}
	courses, total, err := s.repo.Course.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}
	return courses, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error) {
	if err := s.checkCode(ctx, req.Code, 0); err != nil {
		return nil, err
	}
	if err := s.checkTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	course := &model.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	return course, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id uint, req *dto.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != course.Code {
		if err := s.checkCode(ctx, *req.Code, id); err != nil {
			return nil, err
		}
		course.Code = *req.Code
	}
	if req.TeacherID != nil {
		if err := s.checkTeacher(ctx, req.TeacherID); err != nil {
			return nil, err
		}
		course.TeacherID = req.TeacherID
		course.Teacher = nil
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("更新课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除课程，其选课与学习记录随之删除
func (s *courseService) Delete(ctx context.Context, id uint, callerID uint) error {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "course.delete", OperatorID: callerID, TargetType: "course", TargetID: id,
		Detail: map[string]any{"code": course.Code, "name": course.Name},
	})
	return nil
}

// ────────────────────── Enrollment ──────────────────────

func (s *courseService) ListEnrollments(ctx context.Context, courseID uint) ([]model.Enrollment, error) {
	if _, err := s.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程选课失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return enrollments, nil
}

func (s *courseService) ListStudentEnrollments(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	if err := s.checkStudent(ctx, studentID); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生选课失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return enrollments, nil
}

func (s *courseService) Enroll(ctx context.Context, courseID uint, req *dto.EnrollRequest) (*model.Enrollment, error) {
	if _, err := s.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.checkStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	_, err := s.repo.Enrollment.Get(ctx, req.StudentID, courseID)
	if err == nil {
		return nil, ErrEnrollmentExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询选课失败", zap.Error(err))
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.EnrollmentActive
	}
	enrollment := &model.Enrollment{
		StudentID:  req.StudentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		Status:     status,
	}
	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEnrollmentExists
		}
		s.logger.Error("创建选课失败", zap.Error(err))
		return nil, err
	}
	return enrollment, nil
}

func (s *courseService) UpdateEnrollment(ctx context.Context, courseID, studentID uint, req *dto.UpdateEnrollmentRequest) (*model.Enrollment, error) {
	enrollment, err := s.getEnrollment(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}

	enrollment.Status = req.Status
	if err := s.repo.Enrollment.Update(ctx, enrollment); err != nil {
		s.logger.Error("更新选课失败", zap.Error(err))
		return nil, err
	}
	return enrollment, nil
}

func (s *courseService) Unenroll(ctx context.Context, courseID, studentID uint) error {
	if _, err := s.getEnrollment(ctx, courseID, studentID); err != nil {
		return err
	}
	if err := s.repo.Enrollment.Delete(ctx, studentID, courseID); err != nil {
		s.logger.Error("删除选课失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 内部方法 ──

func (s *courseService) getEnrollment(ctx context.Context, courseID, studentID uint) (*model.Enrollment, error) {
	enrollment, err := s.repo.Enrollment.Get(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课失败", zap.Error(err))
		return nil, err
	}
	return enrollment, nil
}

func (s *courseService) checkCode(ctx context.Context, code string, excludeID uint) error {
	existing, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询课程代码失败", zap.Error(err))
		return err
	}
	if existing.ID != excludeID {
		return ErrCourseCodeExists
	}
	return nil
}

func (s *courseService) checkTeacher(ctx context.Context, teacherID *uint) error {
	if teacherID == nil {
		return nil
	}
	if _, err := s.repo.Teacher.GetByID(ctx, *teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *courseService) checkStudent(ctx context.Context, studentID uint) error {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return err
	}
	return nil
}
