package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User           UserRepository
	Teacher        TeacherRepository
	Student        StudentRepository
	Course         CourseRepository
	Enrollment     EnrollmentRepository
	LearningRecord LearningRecordRepository
	Resource       ResourceRepository
	DataImport     DataImportRepository
	AIModel        AIModelRepository
	SystemLog      SystemLogRepository
	Homework       HomeworkRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:           NewUserRepo(db),
		Teacher:        NewTeacherRepo(db),
		Student:        NewStudentRepo(db),
		Course:         NewCourseRepo(db),
		Enrollment:     NewEnrollmentRepo(db),
		LearningRecord: NewLearningRecordRepo(db),
		Resource:       NewResourceRepo(db),
		DataImport:     NewDataImportRepo(db),
		AIModel:        NewAIModelRepo(db),
		SystemLog:      NewSystemLogRepo(db),
		Homework:       NewHomeworkRepo(db),
	}
}

// likePattern 构造模糊查询参数，转义 LIKE 通配符
func likePattern(keyword string) string {
	r := make([]rune, 0, len(keyword)+2)
	r = append(r, '%')
	for _, c := range keyword {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(append(r, '%'))
}

// countBy 按列分组计数，返回 值 → 数量
func countBy(db *gorm.DB, column string) (map[string]int64, error) {
	var rows []struct {
		Key   string
		Total int64
	}
	err := db.Select(column + " AS `key`, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Key] = r.Total
	}
	return result, nil
}
