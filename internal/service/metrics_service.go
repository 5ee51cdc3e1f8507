package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
	apperrors "eduinsight/backend/pkg/errors"
)

const (
	activityDays     = 7
	systemSeriesKey  = "metrics:system"
	defaultSeriesLen = 60
	defaultTopN      = 5
)

// SampleStore 系统采样序列存储（Redis 列表）
type SampleStore interface {
	PushSample(ctx context.Context, key string, sample []byte, maxLen int) error
	RangeSamples(ctx context.Context, key string) ([]string, error)
}

// HostSampler 采集一次主机资源使用率
type HostSampler func(ctx context.Context) (dto.SystemSample, error)

// MetricsService 监控面板聚合接口（只读）
type MetricsService interface {
	Dashboard(ctx context.Context) (*dto.DashboardMetrics, error)
	Models(ctx context.Context) (*dto.ModelMetrics, error)
	Resources(ctx context.Context) (*dto.ResourceMetrics, error)
}

type metricsService struct {
	cfg     *config.MetricsConfig
	repo    *repository.Repository
	store   SampleStore
	sampler HostSampler
	now     func() time.Time
	logger  *zap.Logger
}

// NewMetricsService 创建 MetricsService 实例；sampler 为 nil 时使用 gopsutil
func NewMetricsService(cfg *config.MetricsConfig, repo *repository.Repository, store SampleStore, sampler HostSampler, logger *zap.Logger) MetricsService {
	if sampler == nil {
		sampler = sampleHost
	}
	return &metricsService{
		cfg:     cfg,
		repo:    repo,
		store:   store,
		sampler: sampler,
		now:     time.Now,
		logger:  logger,
	}
}

// sampleHost 通过 gopsutil 读取 CPU 与内存使用率，本服务不探测 GPU
func sampleHost(ctx context.Context) (dto.SystemSample, error) {
	sample := dto.SystemSample{Time: time.Now().Format(time.RFC3339)}

	percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
	if err != nil {
		return sample, err
	}
	if len(percents) > 0 {
		sample.CPU = round2(percents[0])
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return sample, err
	}
	sample.Memory = round2(vm.UsedPercent)
	return sample, nil
}

// ────────────────────── Dashboard ──────────────────────

func (s *metricsService) Dashboard(ctx context.Context) (*dto.DashboardMetrics, error) {
	now := s.now()
	out := &dto.DashboardMetrics{UserRoles: map[string]int64{}}

	// 1. 用户
	roles, err := s.repo.User.CountByRole(ctx)
	if err != nil {
		s.logger.Error("统计用户角色失败", zap.Error(err))
		return nil, err
	}
	for _, role := range []string{model.RoleAdmin, model.RoleTeacher, model.RoleStudent} {
		out.UserRoles[role] = roles[role]
		out.TotalUsers += roles[role]
	}
	out.ActiveUsers, err = s.repo.User.CountActiveSince(ctx, now.AddDate(0, 0, -activityDays))
	if err != nil {
		s.logger.Error("统计活跃用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 最近 7 天学习活跃度，缺失的日期补 0
	out.Activity, err = s.activity(ctx, now)
	if err != nil {
		return nil, err
	}

	// 3. 资源
	byStatus, err := s.repo.Resource.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("统计资源状态失败", zap.Error(err))
		return nil, err
	}
	totals, err := s.repo.Resource.Totals(ctx)
	if err != nil {
		s.logger.Error("统计资源下载量失败", zap.Error(err))
		return nil, err
	}
	out.Resources = dto.ResourceSummary{
		Pending:   byStatus[model.ResourcePending],
		Approved:  byStatus[model.ResourceApproved],
		Rejected:  byStatus[model.ResourceRejected],
		Downloads: totals.Downloads,
	}
	out.Resources.Total = out.Resources.Pending + out.Resources.Approved + out.Resources.Rejected

	out.TopResources, err = s.topResources(ctx)
	if err != nil {
		return nil, err
	}

	// 4. 模型
	models, err := s.repo.AIModel.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询模型列表失败", zap.Error(err))
		return nil, err
	}
	out.Models.Total = int64(len(models))
	for _, m := range models {
		switch m.Status {
		case model.ModelTraining:
			out.Models.Training++
		case model.ModelDeployed:
			out.Models.Deployed++
		}
	}
	out.Models.AvgAccuracy = avgAccuracy(models)

	// 5. 主机采样
	out.System = s.systemSeries(ctx)

	return out, nil
}

func (s *metricsService) activity(ctx context.Context, now time.Time) ([]dto.DailyActivity, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(activityDays - 1))

	rows, err := s.repo.LearningRecord.DailyActivity(ctx, start)
	if err != nil {
		s.logger.Error("统计学习活跃度失败", zap.Error(err))
		return nil, err
	}
	byDay := make(map[string]repository.DailyActivityRow, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r
	}

	days := make([]dto.DailyActivity, 0, activityDays)
	for i := 0; i < activityDays; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		r := byDay[day]
		days = append(days, dto.DailyActivity{Date: day, ActiveStudents: r.ActiveStudents, Records: r.Records})
	}
	return days, nil
}

func (s *metricsService) topResources(ctx context.Context) ([]dto.TopResource, error) {
	n := defaultTopN
	if s.cfg != nil && s.cfg.TopN > 0 {
		n = s.cfg.TopN
	}
	resources, err := s.repo.Resource.TopByDownloads(ctx, n)
	if err != nil {
		s.logger.Error("查询热门资源失败", zap.Error(err))
		return nil, err
	}
	top := make([]dto.TopResource, 0, len(resources))
	for _, r := range resources {
		top = append(top, dto.TopResource{
			ID:            r.ID,
			Name:          r.Name,
			Type:          r.Type,
			DownloadCount: r.DownloadCount,
			ViewCount:     r.ViewCount,
		})
	}
	return top, nil
}

// systemSeries 采样一次并追加到 Redis 序列；没有 Redis 时只返回当前样本
// 采样失败不影响面板其它数据
func (s *metricsService) systemSeries(ctx context.Context) []dto.SystemSample {
	current, err := s.sampler(ctx)
	if err != nil {
		s.logger.Warn("主机资源采样失败", zap.Error(err))
		return []dto.SystemSample{}
	}
	if s.store == nil {
		return []dto.SystemSample{current}
	}

	maxLen := defaultSeriesLen
	if s.cfg != nil && s.cfg.SeriesLength > 0 {
		maxLen = s.cfg.SeriesLength
	}

	b, _ := json.Marshal(current)
	if err := s.store.PushSample(ctx, systemSeriesKey, b, maxLen); err != nil {
		if !errors.Is(err, apperrors.ErrNotConfigured) {
			s.logger.Warn("写入系统采样失败", zap.Error(err))
		}
		return []dto.SystemSample{current}
	}

	raw, err := s.store.RangeSamples(ctx, systemSeriesKey)
	if err != nil {
		s.logger.Warn("读取系统采样失败", zap.Error(err))
		return []dto.SystemSample{current}
	}
	series := make([]dto.SystemSample, 0, len(raw))
	for _, item := range raw {
		var sample dto.SystemSample
		if err := json.Unmarshal([]byte(item), &sample); err != nil {
			continue
		}
		series = append(series, sample)
	}
	return series
}

// ────────────────────── Models ──────────────────────

func (s *metricsService) Models(ctx context.Context) (*dto.ModelMetrics, error) {
	models, err := s.repo.AIModel.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询模型列表失败", zap.Error(err))
		return nil, err
	}

	out := &dto.ModelMetrics{
		ByStatus: map[string]int64{
			model.ModelIdle:     0,
			model.ModelTraining: 0,
			model.ModelDeployed: 0,
			model.ModelFailed:   0,
		},
		AvgAccuracy: avgAccuracy(models),
		Models:      make([]dto.ModelMetric, 0, len(models)),
	}
	for _, m := range models {
		out.ByStatus[m.Status]++
		item := dto.ModelMetric{
			ID:       m.ID,
			Name:     m.Name,
			Type:     m.Type,
			Status:   m.Status,
			Accuracy: m.Accuracy,
		}
		if m.LastTrainedAt != nil {
			ts := m.LastTrainedAt.Format(time.RFC3339)
			item.LastTrainedAt = &ts
		}
		out.Models = append(out.Models, item)
	}
	return out, nil
}

// avgAccuracy 只统计有准确率的模型
func avgAccuracy(models []model.AIModel) float64 {
	var sum float64
	var n int
	for _, m := range models {
		if m.Accuracy != nil {
			sum += *m.Accuracy
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round4(sum / float64(n))
}

// ────────────────────── Resources ──────────────────────

func (s *metricsService) Resources(ctx context.Context) (*dto.ResourceMetrics, error) {
	totals, err := s.repo.Resource.Totals(ctx)
	if err != nil {
		s.logger.Error("统计资源下载量失败", zap.Error(err))
		return nil, err
	}
	byType, err := s.repo.Resource.CountByType(ctx)
	if err != nil {
		s.logger.Error("统计资源类型失败", zap.Error(err))
		return nil, err
	}
	byStatus, err := s.repo.Resource.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("统计资源状态失败", zap.Error(err))
		return nil, err
	}
	top, err := s.topResources(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ResourceMetrics{
		TotalDownloads: totals.Downloads,
		TotalViews:     totals.Views,
		ByType:         byType,
		ByStatus:       byStatus,
		Top:            top,
	}, nil
}

func round2(v float64) float64 { return float64(int64(v*100+0.5)) / 100 }
func round4(v float64) float64 { return float64(int64(v*10000+0.5)) / 10000 }
