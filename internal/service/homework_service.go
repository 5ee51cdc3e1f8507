package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
	"eduinsight/backend/pkg/storage"
)

// ── 作业模块业务错误 ──

var (
	ErrHomeworkNotFound      = errors.New("作业不存在")
	ErrHomeworkNoStudent     = errors.New("当前账号未关联学生档案")
	ErrHomeworkFileType      = errors.New("不支持的作业文件类型")
	ErrHomeworkAlreadyGraded = errors.New("作业已批改，不能删除")
)

var homeworkExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".md": true,
	".jpg": true, ".jpeg": true, ".png": true, ".zip": true,
}

// SubmitHomeworkInput 提交作业的输入
type SubmitHomeworkInput struct {
	Subject     string
	Content     string
	Filename    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// HomeworkService 作业提交与批改业务接口
// 学生只能看到和操作自己的作业，管理员与教师不受限
type HomeworkService interface {
	List(ctx context.Context, req *dto.HomeworkListRequest, session *Session) ([]model.Homework, int64, error)
	GetByID(ctx context.Context, id uint, session *Session) (*model.Homework, error)
	Submit(ctx context.Context, in *SubmitHomeworkInput, session *Session) (*model.Homework, error)
	Grade(ctx context.Context, id uint, req *dto.GradeHomeworkRequest, graderID uint) (*model.Homework, error)
	Download(ctx context.Context, id uint, session *Session) (*dto.DownloadResponse, error)
	Delete(ctx context.Context, id uint, session *Session) error
}

type homeworkService struct {
	cfg    *config.StorageConfig
	repo   *repository.Repository
	store  storage.Storage
	logger *zap.Logger
}

// NewHomeworkService 创建 HomeworkService 实例
func NewHomeworkService(cfg *config.StorageConfig, repo *repository.Repository, store storage.Storage, logger *zap.Logger) HomeworkService {
	return &homeworkService{cfg: cfg, repo: repo, store: store, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *homeworkService) List(ctx context.Context, req *dto.HomeworkListRequest, session *Session) ([]model.Homework, int64, error) {
	filter := repository.HomeworkFilter{StudentID: req.StudentID, Subject: req.Subject, Status: req.Status}
	if !session.IsStaff() {
		student, err := s.studentOf(ctx, session)
		if err != nil {
			return nil, 0, err
		}
		filter.StudentID = student.ID
	}

	list, total, err := s.repo.Homework.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *homeworkService) GetByID(ctx context.Context, id uint, session *Session) (*model.Homework, error) {
	return s.visibleHomework(ctx, id, session)
}

// ────────────────────── Submit ──────────────────────

// Submit 保存作业文件并登记为 submitted
func (s *homeworkService) Submit(ctx context.Context, in *SubmitHomeworkInput, session *Session) (*model.Homework, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !homeworkExtensions[ext] {
		return nil, ErrHomeworkFileType
	}
	student, err := s.studentOf(ctx, session)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(fmt.Sprintf("homework/%d", student.ID), in.Filename)
	url, err := s.store.Put(ctx, key, in.Reader, in.Size, in.ContentType)
	if err != nil {
		s.logger.Error("保存作业文件失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	homework := &model.Homework{
		StudentID:  student.ID,
		Subject:    strings.TrimSpace(in.Subject),
		Content:    in.Content,
		FileURL:    url,
		StorageKey: &key,
		Status:     model.HomeworkSubmitted,
	}
	if err := s.repo.Homework.Create(ctx, homework); err != nil {
		s.logger.Error("创建作业失败", zap.Uint("student_id", student.ID), zap.Error(err))
		s.removeObject(ctx, key)
		return nil, err
	}
	return homework, nil
}

// ────────────────────── Grade ──────────────────────

// Grade 批改作业，允许重复批改，以最后一次为准
func (s *homeworkService) Grade(ctx context.Context, id uint, req *dto.GradeHomeworkRequest, graderID uint) (*model.Homework, error) {
	homework, err := s.getHomework(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	homework.Status = model.HomeworkGraded
	homework.Score = req.Score
	homework.Feedback = req.Feedback
	homework.GraderID = &graderID
	homework.GradedAt = &now

	if err := s.repo.Homework.Grade(ctx, homework); err != nil {
		s.logger.Error("保存批改结果失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "homework.grade", OperatorID: graderID, TargetType: "homework", TargetID: id,
		Detail: map[string]any{"score": *req.Score},
	})
	return homework, nil
}

// ────────────────────── Download ──────────────────────

func (s *homeworkService) Download(ctx context.Context, id uint, session *Session) (*dto.DownloadResponse, error) {
	homework, err := s.visibleHomework(ctx, id, session)
	if err != nil {
		return nil, err
	}

	resp := &dto.DownloadResponse{URL: homework.FileURL}
	if homework.StorageKey != nil && s.store != nil {
		url, err := s.store.SignedURL(ctx, *homework.StorageKey, s.cfg.PresignTTL)
		if err != nil {
			s.logger.Error("生成作业下载地址失败", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
		resp.URL = url
		resp.ExpiresIn = int(s.cfg.PresignTTL.Seconds())
	}
	return resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 学生只能撤回未批改的作业
func (s *homeworkService) Delete(ctx context.Context, id uint, session *Session) error {
	homework, err := s.visibleHomework(ctx, id, session)
	if err != nil {
		return err
	}
	if !session.IsStaff() && homework.Status == model.HomeworkGraded {
		return ErrHomeworkAlreadyGraded
	}

	if err := s.repo.Homework.Delete(ctx, id); err != nil {
		s.logger.Error("删除作业失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if homework.StorageKey != nil {
		s.removeObject(ctx, *homework.StorageKey)
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "homework.delete", OperatorID: session.UserID, TargetType: "homework", TargetID: id,
		Detail: map[string]any{"subject": homework.Subject, "student_id": homework.StudentID},
	})
	return nil
}

// ── 内部方法 ──

// studentOf 按会话手机号找到学生档案
func (s *homeworkService) studentOf(ctx context.Context, session *Session) (*model.Student, error) {
	if session == nil || session.Phone == "" {
		return nil, ErrHomeworkNoStudent
	}
	student, err := s.repo.Student.GetByPhone(ctx, session.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomeworkNoStudent
		}
		s.logger.Error("查询学生档案失败", zap.Uint("user_id", session.UserID), zap.Error(err))
		return nil, err
	}
	return student, nil
}

// visibleHomework 取作业并校验可见性，他人的作业按不存在处理
func (s *homeworkService) visibleHomework(ctx context.Context, id uint, session *Session) (*model.Homework, error) {
	homework, err := s.getHomework(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsStaff() {
		return homework, nil
	}
	student, err := s.studentOf(ctx, session)
	if err != nil {
		return nil, err
	}
	if homework.StudentID != student.ID {
		return nil, ErrHomeworkNotFound
	}
	return homework, nil
}

func (s *homeworkService) getHomework(ctx context.Context, id uint) (*model.Homework, error) {
	homework, err := s.repo.Homework.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomeworkNotFound
		}
		s.logger.Error("查询作业失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return homework, nil
}

func (s *homeworkService) removeObject(ctx context.Context, key string) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("删除作业文件失败", zap.String("key", key), zap.Error(err))
	}
}
