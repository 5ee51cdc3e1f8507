package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
)

// ── 数据导入模块业务错误 ──

var (
	ErrImportFileType       = errors.New("仅支持 .csv 或 .xlsx 文件")
	ErrImportFileUnreadable = errors.New("文件无法解析")
	ErrImportHeaderInvalid  = errors.New("表头不正确")
	ErrImportEmpty          = errors.New("文件中没有数据行")
	ErrImportTooManyRows    = errors.New("数据行数超过上限")
)

const templateFilename = "student_import_template.xlsx"

// ImportService 学生名单导入业务接口
type ImportService interface {
	// Import 导入学生名单；逐行校验写入，无重试
	Import(ctx context.Context, filename string, r io.Reader, operatorID uint) (*dto.ImportResponse, error)
	History(ctx context.Context, req *dto.DataImportListRequest) ([]model.DataImport, int64, error)
	Template(ctx context.Context) (*bytes.Buffer, string, error)
}

type importService struct {
	cfg    *config.ImportConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(cfg *config.ImportConfig, repo *repository.Repository, logger *zap.Logger) ImportService {
	return &importService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Import ──────────────────────

func (s *importService) Import(ctx context.Context, filename string, r io.Reader, operatorID uint) (*dto.ImportResponse, error) {
	// 1. 扩展名不合法直接拒绝，不产生导入记录
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, ErrImportFileType
	}

	// 2. 创建 processing 记录
	record := &model.DataImport{
		Filename: filepath.Base(filename),
		Status:   model.ImportProcessing,
	}
	if operatorID != 0 {
		record.OperatorID = &operatorID
	}
	if err := s.repo.DataImport.Create(ctx, record); err != nil {
		s.logger.Error("创建导入记录失败", zap.Error(err))
		return nil, err
	}

	// 3. 解析文件与表头，失败即终结为 failed 0/0
	rows, err := readSheetRows(filename, r)
	if err != nil {
		s.logger.Warn("导入文件解析失败", zap.String("filename", filename), zap.Error(err))
		return nil, s.abort(ctx, record, ErrImportFileUnreadable)
	}
	if len(rows) == 0 {
		return nil, s.abort(ctx, record, ErrImportHeaderInvalid)
	}
	index, err := mapStudentHeader(rows[0])
	if err != nil {
		return nil, s.abort(ctx, record, err)
	}

	type dataRow struct {
		line   int
		values []string
	}
	var data []dataRow
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		data = append(data, dataRow{line: i + 2, values: row})
	}
	if len(data) == 0 {
		return nil, s.abort(ctx, record, ErrImportEmpty)
	}
	if limit := s.maxRows(); len(data) > limit {
		return nil, s.abort(ctx, record, fmt.Errorf("%w（%d 行，最多 %d 行）", ErrImportTooManyRows, len(data), limit))
	}

	// 4. 预取库中已存在的学号
	ids := make([]string, 0, len(data))
	for _, d := range data {
		if i := index["student_id"]; i < len(d.values) {
			ids = append(ids, strings.TrimSpace(d.values[i]))
		}
	}
	existing, err := s.repo.Student.ExistingStudentIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询已存在学号失败", zap.Error(err))
		return nil, s.abort(ctx, record, err)
	}
	taken := make(map[string]bool, len(existing))
	for _, id := range existing {
		taken[id] = true
	}

	// 5. 逐行校验写入
	var rowErrors []dto.ImportRowError
	fail := func(line int, studentID, reason string) {
		rowErrors = append(rowErrors, dto.ImportRowError{Row: line, StudentID: studentID, Reason: reason})
	}
	seen := make(map[string]int)
	success := 0
	for _, d := range data {
		student, err := parseStudentRow(index, d.values)
		if err != nil {
			fail(d.line, "", err.Error())
			continue
		}
		if first, dup := seen[student.StudentID]; dup {
			fail(d.line, student.StudentID, fmt.Sprintf("学号与第 %d 行重复", first))
			continue
		}
		seen[student.StudentID] = d.line
		if taken[student.StudentID] {
			fail(d.line, student.StudentID, ErrStudentIDExists.Error())
			continue
		}
		if err := s.repo.Student.Create(ctx, student); err != nil {
			s.logger.Warn("导入学生写入失败", zap.Int("row", d.line), zap.Error(err))
			fail(d.line, student.StudentID, "写入失败")
			continue
		}
		success++
	}

	// 6. 终结记录
	record.SuccessCount = success
	record.FailedCount = len(rowErrors)
	record.Status = model.ImportSuccess
	if record.FailedCount > 0 {
		record.Status = model.ImportFailed
		msg := fmt.Sprintf("%d 行导入失败", record.FailedCount)
		record.ErrorMessage = &msg
	}
	if err := s.repo.DataImport.Update(ctx, record); err != nil {
		s.logger.Error("更新导入记录失败", zap.Uint("id", record.ID), zap.Error(err))
		return nil, err
	}

	recordAudit(ctx, s.repo, s.logger, auditEntry{
		Action: "data.import", OperatorID: operatorID, TargetType: "data_import", TargetID: record.ID,
		Detail: map[string]any{"filename": record.Filename, "success": record.SuccessCount, "failed": record.FailedCount},
	})

	return &dto.ImportResponse{Record: record, Errors: rowErrors}, nil
}

// abort 将记录终结为 failed（计数为 0），返回原因供上层响应
func (s *importService) abort(ctx context.Context, record *model.DataImport, cause error) error {
	msg := truncateRunes(cause.Error(), maxErrorMessageRunes)
	record.Status = model.ImportFailed
	record.SuccessCount = 0
	record.FailedCount = 0
	record.ErrorMessage = &msg
	if err := s.repo.DataImport.Update(ctx, record); err != nil {
		s.logger.Error("更新导入记录失败", zap.Uint("id", record.ID), zap.Error(err))
	}
	return cause
}

// error_message 列为 VARCHAR(512)，按字符计长
const maxErrorMessageRunes = 500

// truncateRunes 按字符截断，避免切断多字节的中文
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (s *importService) maxRows() int {
	if s.cfg == nil || s.cfg.MaxRows <= 0 {
		return 1000
	}
	return s.cfg.MaxRows
}

// ────────────────────── History ──────────────────────

func (s *importService) History(ctx context.Context, req *dto.DataImportListRequest) ([]model.DataImport, int64, error) {
	records, total, err := s.repo.DataImport.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询导入历史失败", zap.Error(err))
		return nil, 0, err
	}
	return records, total, nil
}

// ────────────────────── Template ──────────────────────

func (s *importService) Template(_ context.Context) (*bytes.Buffer, string, error) {
	buf, err := buildStudentTemplate()
	if err != nil {
		s.logger.Error("生成导入模板失败", zap.Error(err))
		return nil, "", err
	}
	return buf, templateFilename, nil
}
