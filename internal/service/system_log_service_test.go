package service

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"eduinsight/backend/internal/dto"
)

func TestSystemLogService_ListNewestFirstWithFilters(t *testing.T) {
	repo, mocks := newMockRepository()
	svc := NewSystemLogService(repo, zap.NewNop())
	ctx := context.Background()

	recordAudit(ctx, repo, zap.NewNop(), auditEntry{Action: "resource.review", OperatorID: 1, TargetType: "resource", TargetID: 3})
	recordAudit(ctx, repo, zap.NewNop(), auditEntry{Level: "error", Action: "model.train", TargetType: "model", TargetID: 7, Detail: map[string]any{"status": "failed"}})
	recordAudit(ctx, repo, zap.NewNop(), auditEntry{Action: "resource.review", OperatorID: 1, TargetType: "resource", TargetID: 4})

	logs, total, err := svc.List(ctx, &dto.SystemLogListRequest{})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 3 || len(logs) != 3 {
		t.Fatalf("期望 3 条，实际 total=%d len=%d", total, len(logs))
	}
	if logs[0].TargetID == nil || *logs[0].TargetID != 4 {
		t.Error("期望最新的日志排在最前")
	}
	if logs[0].Level != "info" {
		t.Errorf("未指定级别时应默认为 info，实际=%s", logs[0].Level)
	}

	logs, total, _ = svc.List(ctx, &dto.SystemLogListRequest{Level: "error"})
	if total != 1 || logs[0].Action != "model.train" {
		t.Fatalf("按级别过滤结果不符: total=%d", total)
	}
	if logs[0].OperatorID != nil {
		t.Error("未指定操作人时 operator_id 应为空")
	}
	var detail map[string]any
	if err := json.Unmarshal(logs[0].Detail, &detail); err != nil || detail["status"] != "failed" {
		t.Errorf("detail 解析不符: %v %v", detail, err)
	}

	_, total, _ = svc.List(ctx, &dto.SystemLogListRequest{Action: "resource.review", PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 1}})
	if total != 2 {
		t.Errorf("按动作过滤期望 2 条，实际=%d", total)
	}
	if got := len(mocks.systemLog.actions()); got != 3 {
		t.Errorf("期望写入 3 条审计日志，实际=%d", got)
	}
}
