package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
)

// auditEntry 一条审计日志
type auditEntry struct {
	Level      string
	Action     string
	OperatorID uint
	TargetType string
	TargetID   uint
	Detail     map[string]any
}

// recordAudit 写入审计日志；写入失败只记录，不影响业务结果
func recordAudit(ctx context.Context, repo *repository.Repository, logger *zap.Logger, e auditEntry) {
	entry := &model.SystemLog{
		Level:      e.Level,
		Action:     e.Action,
		TargetType: e.TargetType,
	}
	if entry.Level == "" {
		entry.Level = "info"
	}
	if e.OperatorID != 0 {
		op := e.OperatorID
		entry.OperatorID = &op
	}
	if e.TargetID != 0 {
		id := e.TargetID
		entry.TargetID = &id
	}
	if e.Detail != nil {
		if b, err := json.Marshal(e.Detail); err == nil {
			entry.Detail = datatypes.JSON(b)
		}
	}

	if err := repo.SystemLog.Create(ctx, entry); err != nil {
		logger.Warn("写入审计日志失败", zap.String("action", e.Action), zap.Error(err))
	}
}
