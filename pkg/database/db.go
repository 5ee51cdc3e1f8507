package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"eduinsight/backend/config"
)

// zapWriter 将 GORM 日志输出转接到 Zap
type zapWriter struct {
	sugar *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

// newGormLogger debug 级别输出全部 SQL，其余级别只记录慢查询与错误
func newGormLogger(logLevel string, slow time.Duration, logger *zap.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if logLevel == "debug" {
		level = gormlogger.Info
	}
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	return gormlogger.New(zapWriter{sugar: logger.Named("gorm").Sugar()}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		// 非 debug 级别不在日志中展开参数（手机号、密码哈希等）
		ParameterizedQueries: level != gormlogger.Info,
	})
}

// NewDB 初始化 MySQL 连接池
func NewDB(cfg *config.DatabaseConfig, logLevel string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: newGormLogger(logLevel, time.Duration(cfg.SlowQueryMs)*time.Millisecond, logger),
		// 唯一键冲突翻译为 gorm.ErrDuplicatedKey
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().Truncate(time.Microsecond) },
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(positiveOr(cfg.MaxOpenConns, 25))
	sqlDB.SetMaxIdleConns(positiveOr(cfg.MaxIdleConns, 10))
	sqlDB.SetConnMaxLifetime(time.Duration(positiveOr(cfg.ConnMaxLifetime, 60)) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	logger.Info("数据库已连接",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.String("dbname", cfg.Name),
		zap.Int("max_open_conns", positiveOr(cfg.MaxOpenConns, 25)),
	)

	return db, nil
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
