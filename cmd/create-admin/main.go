// create-admin 按配置（或命令行参数）创建管理员账号，已存在时不做修改
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/repository"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/database"
	"eduinsight/backend/pkg/jwt"
	applogger "eduinsight/backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	phone := flag.String("phone", "", "管理员手机号，默认取 auth.admin_phone")
	password := flag.String("password", "", "管理员密码，默认取 auth.admin_password")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *phone != "" {
		cfg.Auth.AdminPhone = *phone
	}
	if *password != "" {
		cfg.Auth.AdminPassword = *password
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	authSvc := service.NewAuthService(cfg, repository.NewRepository(db), jwt.NewManager(&cfg.Auth), nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := authSvc.EnsureAdmin(ctx)
	if err != nil {
		logger.Fatal("创建管理员失败", zap.Error(err))
	}
	if created {
		fmt.Printf("管理员 %s 已创建\n", cfg.Auth.AdminPhone)
		return
	}
	fmt.Printf("手机号 %s 已存在，未做修改\n", cfg.Auth.AdminPhone)
}
