package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
	apperrors "eduinsight/backend/pkg/errors"
	"eduinsight/backend/pkg/modelclient"
)

// ── 模型管理模块业务错误 ──

var (
	ErrModelNotFound      = errors.New("模型不存在")
	ErrModelTraining      = errors.New("模型正在训练中")
	ErrModelServiceFailed = errors.New("模型服务调用失败")
)

// 默认超参数
var defaultHyperparameters = model.Hyperparameters{
	LearningRate: 0.001,
	Epochs:       100,
	BatchSize:    32,
}

// ModelTrainer 外部模型服务的训练触发
type ModelTrainer interface {
	Train(ctx context.Context, req modelclient.TrainRequest) error
}

// ModelService 分析模型业务接口
type ModelService interface {
	List(ctx context.Context, req *dto.ModelListRequest) ([]model.AIModel, int64, error)
	GetByID(ctx context.Context, id uint) (*model.AIModel, error)
	Create(ctx context.Context, req *dto.CreateModelRequest) (*model.AIModel, error)
	Update(ctx context.Context, id uint, req *dto.UpdateModelRequest) (*model.AIModel, error)
	// Train 触发一次训练，不排队、不重试
	Train(ctx context.Context, id uint, operatorID uint) (*model.AIModel, error)
	Delete(ctx context.Context, id uint, callerID uint) error
}

type modelService struct {
	repo    *repository.Repository
	trainer ModelTrainer
	logger  *zap.Logger
}

// NewModelService 创建 ModelService 实例；trainer 为 nil 时训练只记录状态
func NewModelService(repo *repository.Repository, trainer ModelTrainer, logger *zap.Logger) ModelService {
	return &modelService{repo: repo, trainer: trainer, logger: logger}
}

func (s *modelService) List(ctx context.Context, req *dto.ModelListRequest) ([]model.AIModel, int64, error) {
	filter := repository.AIModelFilter{Type: req.Type, Status: req.Status}
	models, total, err := s.repo.AIModel.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询模型列表失败", zap.Error(err))
		return nil, 0, err
	}
	return models, total, nil
}

func (s *modelService) GetByID(ctx context.Context, id uint) (*model.AIModel, error) {
	m, err := s.repo.AIModel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModelNotFound
		}
		s.logger.Error("查询模型失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (s *modelService) Create(ctx context.Context, req *dto.CreateModelRequest) (*model.AIModel, error) {
	hp := defaultHyperparameters
	mergeHyperparameters(&hp, &req.Hyperparameters)

	m := &model.AIModel{
		Name:            req.Name,
		Type:            req.Type,
		Status:          model.ModelIdle,
		Hyperparameters: datatypes.NewJSONType(hp),
	}
	if err := s.repo.AIModel.Create(ctx, m); err != nil {
		s.logger.Error("创建模型失败", zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (s *modelService) Update(ctx context.Context, id uint, req *dto.UpdateModelRequest) (*model.AIModel, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Accuracy != nil {
		acc := *req.Accuracy
		m.Accuracy = &acc
	}
	if req.Hyperparameters != nil {
		hp := m.Hyperparameters.Data()
		mergeHyperparameters(&hp, req.Hyperparameters)
		m.Hyperparameters = datatypes.NewJSONType(hp)
	}

	if err := s.repo.AIModel.Update(ctx, m); err != nil {
		s.logger.Error("更新模型失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	// 训练中的模型不允许手动改状态
	if req.Status != nil && *req.Status != m.Status {
		if m.Status == model.ModelTraining {
			return nil, ErrModelTraining
		}
		from := m.Status
		m.Status = *req.Status
		if err := s.repo.AIModel.UpdateStatusIf(ctx, m, from); err != nil {
			if errors.Is(err, apperrors.ErrStatusConflict) {
				return nil, ErrModelTraining
			}
			s.logger.Error("更新模型状态失败", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
	}
	return m, nil
}

// mergeHyperparameters 只覆盖请求中给出的正值
func mergeHyperparameters(hp *model.Hyperparameters, req *dto.HyperparametersRequest) {
	if req.LearningRate > 0 {
		hp.LearningRate = req.LearningRate
	}
	if req.Epochs > 0 {
		hp.Epochs = req.Epochs
	}
	if req.BatchSize > 0 {
		hp.BatchSize = req.BatchSize
	}
}

// ────────────────────── Train ──────────────────────

func (s *modelService) Train(ctx context.Context, id uint, operatorID uint) (*model.AIModel, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == model.ModelTraining {
		return nil, ErrModelTraining
	}

	hp := m.Hyperparameters.Data()
	req := modelclient.TrainRequest{
		ModelID:   m.ID,
		ModelType: m.Type,
		Config: map[string]any{
			"learning_rate": hp.LearningRate,
			"epochs":        hp.Epochs,
			"batch_size":    hp.BatchSize,
		},
	}

	// 先以条件更新占住 training 状态，并发触发只有一个能成功
	from := m.Status
	now := time.Now()
	m.LastTrainedAt = &now
	m.Status = model.ModelTraining
	if err := s.repo.AIModel.UpdateStatusIf(ctx, m, from); err != nil {
		if errors.Is(err, apperrors.ErrStatusConflict) {
			return nil, ErrModelTraining
		}
		s.logger.Error("更新模型训练状态失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	callErr := s.callTrainer(ctx, req)
	if callErr != nil {
		m.Status = model.ModelFailed
		if err := s.repo.AIModel.UpdateStatusIf(ctx, m, model.ModelTraining); err != nil {
			s.logger.Error("记录模型训练失败状态失败", zap.Uint("id", id), zap.Error(err))
		}
	}

	detail := map[string]any{"status": m.Status}
	level := "info"
	if callErr != nil {
		detail["error"] = callErr.Error()
		level = "error"
	}
	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Level: level, Action: "model.train", OperatorID: operatorID, TargetType: "model", TargetID: m.ID, Detail: detail,
	})

	if callErr != nil {
		return nil, ErrModelServiceFailed
	}
	return m, nil
}

// callTrainer 未配置模型服务时只记录触发
func (s *modelService) callTrainer(ctx context.Context, req modelclient.TrainRequest) error {
	if s.trainer == nil {
		s.logger.Info("未配置模型服务，仅记录训练触发", zap.Uint("model_id", req.ModelID))
		return nil
	}
	err := s.trainer.Train(ctx, req)
	if errors.Is(err, apperrors.ErrNotConfigured) {
		s.logger.Info("未配置模型服务，仅记录训练触发", zap.Uint("model_id", req.ModelID))
		return nil
	}
	if err != nil {
		s.logger.Error("触发模型训练失败", zap.Uint("model_id", req.ModelID), zap.Error(err))
	}
	return err
}

func (s *modelService) Delete(ctx context.Context, id uint, callerID uint) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.AIModel.Delete(ctx, id); err != nil {
		s.logger.Error("删除模型失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "model.delete", OperatorID: callerID, TargetType: "model", TargetID: id,
		Detail: map[string]any{"name": m.Name},
	})
	return nil
}
