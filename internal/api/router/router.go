package router

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/api/handler"
	"eduinsight/backend/internal/api/middleware"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/pkg/jwt"
	"eduinsight/backend/pkg/redis"
	"eduinsight/backend/pkg/validator"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与登录限流降级放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return nil, fmt.Errorf("gin 校验引擎类型异常")
	}
	if err := validator.Register(v); err != nil {
		return nil, fmt.Errorf("注册校验规则失败: %w", err)
	}

	var (
		checker middleware.TokenChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		checker = rdb
		limiter = rdb
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewHTTPMetrics(reg)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health", "/metrics"))
	r.Use(httpMetrics.Middleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查与抓取 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// 本地存储的文件只能凭下载令牌读取
	if prefix := strings.TrimRight(cfg.Storage.PublicURL, "/"); cfg.Storage.Provider == "local" && strings.HasPrefix(prefix, "/") {
		r.GET(prefix+"/*key", h.Resource.ServeFile)
	}

	admin := middleware.RoleAuth(model.RoleAdmin)
	staff := middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.GET("/status", h.Auth.Status)
			auth.GET("/ping", h.Auth.Ping)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户模块（管理员）
			users := authorized.Group("/users", admin)
			{
				users.GET("", h.User.List)
				users.POST("", h.User.Create)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", h.User.Update)
				users.DELETE("/:id", h.User.Delete)
			}

			// 教师模块
			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Teacher.List)
				teachers.GET("/:id", h.Teacher.Get)
				teachers.POST("", admin, h.Teacher.Create)
				teachers.PUT("/:id", admin, h.Teacher.Update)
				teachers.DELETE("/:id", admin, h.Teacher.Delete)
			}

			// 学生模块
			students := authorized.Group("/students")
			{
				students.GET("", h.Student.List)
				students.GET("/:id", h.Student.Get)
				students.POST("", staff, h.Student.Create)
				students.PUT("/:id", staff, h.Student.Update)
				students.DELETE("/:id", staff, h.Student.Delete)
				students.GET("/:id/enrollments", h.Student.Enrollments)
				students.GET("/:id/calendar.ics", h.Student.Calendar)
				students.GET("/:id/progress", h.Student.Progress)
			}

			// 课程与选课
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.GET("/:id", h.Course.Get)
				courses.POST("", staff, h.Course.Create)
				courses.PUT("/:id", staff, h.Course.Update)
				courses.DELETE("/:id", staff, h.Course.Delete)
				courses.GET("/:id/enrollments", h.Course.ListEnrollments)
				courses.POST("/:id/enrollments", staff, h.Course.Enroll)
				courses.PUT("/:id/enrollments/:student_id", staff, h.Course.UpdateEnrollment)
				courses.DELETE("/:id/enrollments/:student_id", staff, h.Course.Unenroll)
			}

			// 学习记录
			records := authorized.Group("/learning-records")
			{
				records.GET("", h.LearningRecord.List)
				records.POST("", h.LearningRecord.Create)
				records.DELETE("/:id", staff, h.LearningRecord.Delete)
			}

			// 教学资源
			resources := authorized.Group("/resources")
			{
				resources.GET("", h.Resource.List)
				resources.POST("", h.Resource.Create)
				resources.GET("/:id", h.Resource.Get)
				resources.PUT("/:id", staff, h.Resource.Update)
				resources.DELETE("/:id", staff, h.Resource.Delete)
				resources.POST("/:id/review", admin, h.Resource.Review)
				resources.POST("/:id/auto-review", admin, h.Resource.AutoReview)
				resources.GET("/:id/download", h.Resource.Download)
			}

			// 数据导入
			data := authorized.Group("/data")
			{
				data.GET("/template", h.Data.Template)
				data.POST("/import", staff, h.Data.Import)
				data.GET("/imports", staff, h.Data.History)
			}

			// 监控面板
			metrics := authorized.Group("/metrics")
			{
				metrics.GET("", h.Metrics.Dashboard)
				metrics.GET("/models", h.Metrics.Models)
				metrics.GET("/resources", h.Metrics.Resources)
			}

			// 分析模型
			models := authorized.Group("/models")
			{
				models.GET("", h.Model.List)
				models.GET("/:id", h.Model.Get)
				models.POST("", admin, h.Model.Create)
				models.POST("/:id/update", admin, h.Model.Update)
				models.POST("/:id/train", admin, h.Model.Train)
				models.DELETE("/:id", admin, h.Model.Delete)
			}

			// 作业提交与批改
			homework := authorized.Group("/homework")
			{
				homework.GET("", h.Homework.List)
				homework.POST("", middleware.RoleAuth(model.RoleStudent), h.Homework.Submit)
				homework.GET("/:id", h.Homework.Get)
				homework.GET("/:id/download", h.Homework.Download)
				homework.POST("/:id/grade", staff, h.Homework.Grade)
				homework.DELETE("/:id", h.Homework.Delete)
			}

			authorized.GET("/system-logs", admin, h.SystemLog.List)
		}
	}

	return r, nil
}
