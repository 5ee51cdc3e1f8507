package service

import (
	"go.uber.org/zap"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/repository"
	"eduinsight/backend/pkg/contentcheck"
	"eduinsight/backend/pkg/jwt"
	"eduinsight/backend/pkg/modelclient"
	"eduinsight/backend/pkg/redis"
	"eduinsight/backend/pkg/storage"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth           AuthService
	User           UserService
	Teacher        TeacherService
	Student        StudentService
	Course         CourseService
	LearningRecord LearningRecordService
	Resource       ResourceService
	Import         ImportService
	Metrics        MetricsService
	Model          ModelService
	SystemLog      SystemLogService
	Homework       HomeworkService
}

// NewService 创建 Service 聚合
// rdb、trainer 与 checker 允许为 nil：未启用 Redis 或未配置外部服务时按降级逻辑运行
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	store storage.Storage,
	trainer *modelclient.Client,
	checker *contentcheck.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:           NewUserService(repo, rdb, cfg.Auth.AccessTokenTTL, logger),
		Teacher:        NewTeacherService(repo, logger),
		Student:        NewStudentService(repo, logger),
		Course:         NewCourseService(repo, logger),
		LearningRecord: NewLearningRecordService(repo, logger),
		Resource:       NewResourceService(&cfg.Storage, cfg.Server.BaseURL, repo, store, checker, logger),
		Import:         NewImportService(&cfg.Import, repo, logger),
		Metrics:        NewMetricsService(&cfg.Metrics, repo, rdb, nil, logger),
		Model:          NewModelService(repo, trainer, logger),
		SystemLog:      NewSystemLogService(repo, logger),
		Homework:       NewHomeworkService(&cfg.Storage, repo, store, logger),
	}
}
