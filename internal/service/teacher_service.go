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

// ── 教师模块业务错误 ──

var (
	ErrTeacherNotFound = errors.New("教师不存在")
	ErrTeacherIDExists = errors.New("教师工号已存在")
)

// TeacherService 教师档案业务接口
type TeacherService interface {
	List(ctx context.Context, req *dto.TeacherListRequest) ([]model.Teacher, int64, error)
	GetByID(ctx context.Context, id uint) (*model.Teacher, error)
	Create(ctx context.Context, req *dto.CreateTeacherRequest) (*model.Teacher, error)
	Update(ctx context.Context, id uint, req *dto.UpdateTeacherRequest) (*model.Teacher, error)
	Delete(ctx context.Context, id uint, callerID uint) error
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *teacherService) List(ctx context.Context, req *dto.TeacherListRequest) ([]model.Teacher, int64, error) {
	filter := repository.TeacherFilter{Department: req.Department, Keyword: req.Keyword}
	teachers, total, err := s.repo.Teacher.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询教师列表失败", zap.Error(err))
		return nil, 0, err
	}
	return teachers, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *teacherService) GetByID(ctx context.Context, id uint) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// ────────────────────── Create ──────────────────────

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest) (*model.Teacher, error) {
	if err := s.checkTeacherID(ctx, req.TeacherID, 0); err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		TeacherID:    req.TeacherID,
		Name:         req.Name,
		Gender:       req.Gender,
		Title:        req.Title,
		Department:   req.Department,
		Phone:        req.Phone,
		Email:        req.Email,
		Office:       req.Office,
		ResearchArea: req.ResearchArea,
	}
	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeacherIDExists
		}
		s.logger.Error("创建教师失败", zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// ────────────────────── Update ──────────────────────

func (s *teacherService) Update(ctx context.Context, id uint, req *dto.UpdateTeacherRequest) (*model.Teacher, error) {
	teacher, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TeacherID != nil && *req.TeacherID != teacher.TeacherID {
		if err := s.checkTeacherID(ctx, *req.TeacherID, id); err != nil {
			return nil, err
		}
		teacher.TeacherID = *req.TeacherID
	}
	if req.Name != nil {
		teacher.Name = *req.Name
	}
	if req.Gender != nil {
		teacher.Gender = *req.Gender
	}
	if req.Title != nil {
		teacher.Title = *req.Title
	}
	if req.Department != nil {
		teacher.Department = *req.Department
	}
	if req.Phone != nil {
		teacher.Phone = *req.Phone
	}
	if req.Email != nil {
		teacher.Email = *req.Email
	}
	if req.Office != nil {
		teacher.Office = req.Office
	}
	if req.ResearchArea != nil {
		teacher.ResearchArea = req.ResearchArea
	}

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeacherIDExists
		}
		s.logger.Error("更新教师失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// ────────────────────── Delete ──────────────────────

func (s *teacherService) Delete(ctx context.Context, id uint, callerID uint) error {
	teacher, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Teacher.Delete(ctx, id); err != nil {
		s.logger.Error("删除教师失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "teacher.delete", OperatorID: callerID, TargetType: "teacher", TargetID: id,
		Detail: map[string]any{"teacher_id": teacher.TeacherID, "name": teacher.Name},
	})
	return nil
}

func (s *teacherService) checkTeacherID(ctx context.Context, teacherID string, excludeID uint) error {
	existing, err := s.repo.Teacher.GetByTeacherID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询教师工号失败", zap.Error(err))
		return err
	}
	if existing.ID != excludeID {
		return ErrTeacherIDExists
	}
	return nil
}
