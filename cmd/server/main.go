package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/api/handler"
	"eduinsight/backend/internal/api/router"
	"eduinsight/backend/internal/repository"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/contentcheck"
	"eduinsight/backend/pkg/database"
	"eduinsight/backend/pkg/jwt"
	applogger "eduinsight/backend/pkg/logger"
	"eduinsight/backend/pkg/modelclient"
	"eduinsight/backend/pkg/redis"
	"eduinsight/backend/pkg/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("EDU_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("storage", cfg.Storage.Provider),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，Token 黑名单、登录限流与指标序列将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 资源存储与模型服务
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("初始化资源存储失败", zap.Error(err))
	}
	trainer := modelclient.New(&cfg.ModelService)
	if trainer == nil {
		logger.Warn("未配置 model_service.base_url，训练请求只记录不下发")
	}
	checker := contentcheck.New(&cfg.ContentCheck)
	if checker == nil {
		logger.Info("未配置 content_check，资源自动检查不可用")
	}

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, store, trainer, checker, logger)
	h := handler.NewHandler(cfg, svc)

	// 6.1 初始管理员
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	created, err := svc.Auth.EnsureAdmin(bootCtx)
	bootCancel()
	if err != nil {
		logger.Fatal("初始化管理员账号失败", zap.Error(err))
	}
	if created {
		logger.Info("已创建初始管理员账号", zap.String("phone", cfg.Auth.AdminPhone))
	}

	// 7. 初始化路由
	engine, err := router.Setup(cfg, h, jwtMgr, rdb, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}
