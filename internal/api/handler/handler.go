package handler

import (
	"eduinsight/backend/config"
	"eduinsight/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth           *AuthHandler
	User           *UserHandler
	Teacher        *TeacherHandler
	Student        *StudentHandler
	Course         *CourseHandler
	LearningRecord *LearningRecordHandler
	Resource       *ResourceHandler
	Data           *DataHandler
	Metrics        *MetricsHandler
	Model          *ModelHandler
	SystemLog      *SystemLogHandler
	Homework       *HomeworkHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth),
		User:           NewUserHandler(svc.User),
		Teacher:        NewTeacherHandler(svc.Teacher),
		Student:        NewStudentHandler(svc.Student, svc.Course, svc.LearningRecord),
		Course:         NewCourseHandler(svc.Course),
		LearningRecord: NewLearningRecordHandler(svc.LearningRecord),
		Resource:       NewResourceHandler(svc.Resource),
		Data:           NewDataHandler(svc.Import, cfg.Import.MaxFileBytes),
		Metrics:        NewMetricsHandler(svc.Metrics),
		Model:          NewModelHandler(svc.Model),
		SystemLog:      NewSystemLogHandler(svc.SystemLog),
		Homework:       NewHomeworkHandler(svc.Homework),
	}
}
