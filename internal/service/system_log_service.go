package service

import (
	"context"

	"go.uber.org/zap"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
)

// SystemLogService 审计日志查询接口
type SystemLogService interface {
	List(ctx context.Context, req *dto.SystemLogListRequest) ([]model.SystemLog, int64, error)
}

type systemLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSystemLogService 创建 SystemLogService 实例
func NewSystemLogService(repo *repository.Repository, logger *zap.Logger) SystemLogService {
	return &systemLogService{repo: repo, logger: logger}
}

func (s *systemLogService) List(ctx context.Context, req *dto.SystemLogListRequest) ([]model.SystemLog, int64, error) {
	filter := repository.SystemLogFilter{Action: req.Action, Level: req.Level}
	logs, total, err := s.repo.SystemLog.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, 0, err
	}
	return logs, total, nil
}
