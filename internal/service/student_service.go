package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound = errors.New("学生不存在")
	ErrStudentIDExists = errors.New("学号已存在")
)

// StudentService 学生档案业务接口
type StudentService interface {
	List(ctx context.Context, req *dto.StudentListRequest) ([]model.Student, int64, error)
	GetByID(ctx context.Context, id uint) (*model.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error)
	Update(ctx context.Context, id uint, req *dto.UpdateStudentRequest) (*model.Student, error)
	Delete(ctx context.Context, id uint, callerID uint) error
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]model.Student, int64, error) {
	filter := repository.StudentFilter{Grade: req.Grade, ClassName: req.ClassName, Keyword: req.Keyword}
	students, total, err := s.repo.Student.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, 0, err
	}
	return students, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id uint) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error) {
	if err := s.checkStudentID(ctx, req.StudentID, 0); err != nil {
		return nil, err
	}

	student := &model.Student{
		StudentID: req.StudentID,
		Name:      req.Name,
		Gender:    req.Gender,
		Grade:     req.Grade,
		ClassName: req.ClassName,
		Phone:     req.Phone,
		Parent: model.Parent{
			Name:    req.Parent.Name,
			Phone:   req.Parent.Phone,
			Address: req.Parent.Address,
		},
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentIDExists
		}
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}
	return student, nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id uint, req *dto.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StudentID != nil && *req.StudentID != student.StudentID {
		if err := s.checkStudentID(ctx, *req.StudentID, id); err != nil {
			return nil, err
		}
		student.StudentID = *req.StudentID
	}
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Gender != nil {
		student.Gender = *req.Gender
	}
	if req.Grade != nil {
		student.Grade = *req.Grade
	}
	if req.ClassName != nil {
		student.ClassName = *req.ClassName
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if p := req.Parent; p != nil {
		if p.Name != nil {
			student.Parent.Name = *p.Name
		}
		if p.Phone != nil {
			student.Parent.Phone = *p.Phone
		}
		if p.Address != nil {
			student.Parent.Address = p.Address
		}
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentIDExists
		}
		s.logger.Error("更新学生失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除学生，其选课与学习记录随之删除
func (s *studentService) Delete(ctx context.Context, id uint, callerID uint) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Student.Delete(ctx, id); err != nil {
		s.logger.Error("删除学生失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "student.delete", OperatorID: callerID, TargetType: "student", TargetID: id,
		Detail: map[string]any{"student_id": student.StudentID, "name": student.Name},
	})
	return nil
}

func (s *studentService) checkStudentID(ctx context.Context, studentID string, excludeID uint) error {
	existing, err := s.repo.Student.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询学号失败", zap.Error(err))
		return err
	}
	if existing.ID != excludeID {
		return ErrStudentIDExists
	}
	return nil
}
