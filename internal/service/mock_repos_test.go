package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/repository"
	apperrors "eduinsight/backend/pkg/errors"
)

// newMockRepository 组装全部 mock 仓库
func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:       newMockUserRepo(),
		teacher:    newMockTeacherRepo(),
		student:    newMockStudentRepo(),
		course:     newMockCourseRepo(),
		enrollment: newMockEnrollmentRepo(),
		record:     newMockLearningRecordRepo(),
		resource:   newMockResourceRepo(),
		dataImport: newMockDataImportRepo(),
		aiModel:    newMockAIModelRepo(),
		systemLog:  &mockSystemLogRepo{},
		homework:   newMockHomeworkRepo(),
	}
	repo := &repository.Repository{
		User:           m.user,
		Teacher:        m.teacher,
		Student:        m.student,
		Course:         m.course,
		Enrollment:     m.enrollment,
		LearningRecord: m.record,
		Resource:       m.resource,
		DataImport:     m.dataImport,
		AIModel:        m.aiModel,
		SystemLog:      m.systemLog,
		Homework:       m.homework,
	}
	return repo, m
}

type mockRepos struct {
	user       *mockUserRepo
	teacher    *mockTeacherRepo
	student    *mockStudentRepo
	course     *mockCourseRepo
	enrollment *mockEnrollmentRepo
	record     *mockLearningRecordRepo
	resource   *mockResourceRepo
	dataImport *mockDataImportRepo
	aiModel    *mockAIModelRepo
	systemLog  *mockSystemLogRepo
	homework   *mockHomeworkRepo
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func sortedIDs[T any](m map[uint]T) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

// ── Mock UserRepository ──

func sameOptional(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
	// beforeCreate 在唯一性预检之后、写入之前执行，用于模拟并发写入
	beforeCreate func()
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	for _, u := range m.users {
		if u.Phone == user.Phone || sameOptional(u.Email, user.Email) || sameOptional(u.Username, user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Phone == phone })
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email != nil && *u.Email == email })
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Username != nil && *u.Username == username })
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLoginAt = &at
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, id := range sortedIDs(m.users) {
		u := m.users[id]
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Phone, filter.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockUserRepo) CountByRole(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, u := range m.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (m *mockUserRepo) CountActiveSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.LastLoginAt != nil && !u.LastLoginAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[uint]*model.Teacher
	nextID   uint
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[uint]*model.Teacher), nextID: 1}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	teacher.ID = m.nextID
	m.nextID++
	m.teachers[teacher.ID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id uint) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByTeacherID(_ context.Context, teacherID string) (*model.Teacher, error) {
	for _, t := range m.teachers {
		if t.TeacherID == teacherID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.teachers[teacher.ID] = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id uint) error {
	delete(m.teachers, id)
	return nil
}

func (m *mockTeacherRepo) List(_ context.Context, filter repository.TeacherFilter, offset, limit int) ([]model.Teacher, int64, error) {
	var result []model.Teacher
	for _, id := range sortedIDs(m.teachers) {
		t := m.teachers[id]
		if filter.Department != "" && t.Department != filter.Department {
			continue
		}
		result = append(result, *t)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students  map[uint]*model.Student
	nextID    uint
	createErr error
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[uint]*model.Student), nextID: 1}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, s := range m.students {
		if s.StudentID == student.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	student.ID = m.nextID
	m.nextID++
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id uint) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByStudentID(_ context.Context, studentID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByPhone(_ context.Context, phone string) (*model.Student, error) {
	for _, id := range sortedIDs(m.students) {
		if s := m.students[id]; s.Phone == phone {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ExistingStudentIDs(_ context.Context, studentIDs []string) ([]string, error) {
	var found []string
	for _, id := range studentIDs {
		for _, s := range m.students {
			if s.StudentID == id {
				found = append(found, id)
				break
			}
		}
	}
	return found, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id uint) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, filter repository.StudentFilter, offset, limit int) ([]model.Student, int64, error) {
	var result []model.Student
	for _, id := range sortedIDs(m.students) {
		s := m.students[id]
		if filter.Grade != "" && s.Grade != filter.Grade {
			continue
		}
		if filter.ClassName != "" && s.ClassName != filter.ClassName {
			continue
		}
		result = append(result, *s)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[uint]*model.Course
	nextID  uint
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[uint]*model.Course), nextID: 1}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	course.ID = m.nextID
	m.nextID++
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id uint) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id uint) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	var result []model.Course
	for _, id := range sortedIDs(m.courses) {
		c := m.courses[id]
		if filter.TeacherID != nil && (c.TeacherID == nil || *c.TeacherID != *filter.TeacherID) {
			continue
		}
		result = append(result, *c)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock EnrollmentRepository ──

type enrollmentKey struct{ studentID, courseID uint }

type mockEnrollmentRepo struct {
	enrollments map[enrollmentKey]*model.Enrollment
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[enrollmentKey]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	k := enrollmentKey{e.StudentID, e.CourseID}
	if _, ok := m.enrollments[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.enrollments[k] = e
	return nil
}

func (m *mockEnrollmentRepo) Get(_ context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	if e, ok := m.enrollments[enrollmentKey{studentID, courseID}]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.Enrollment) error {
	m.enrollments[enrollmentKey{e.StudentID, e.CourseID}] = e
	return nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, studentID, courseID uint) error {
	delete(m.enrollments, enrollmentKey{studentID, courseID})
	return nil
}

func (m *mockEnrollmentRepo) ListByCourse(_ context.Context, courseID uint) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for k, e := range m.enrollments {
		if k.courseID == courseID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID uint) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for k, e := range m.enrollments {
		if k.studentID == studentID {
			result = append(result, *e)
		}
	}
	return result, nil
}

// ── Mock LearningRecordRepository ──

type mockLearningRecordRepo struct {
	records map[uint]*model.LearningRecord
	nextID  uint
}

func newMockLearningRecordRepo() *mockLearningRecordRepo {
	return &mockLearningRecordRepo{records: make(map[uint]*model.LearningRecord), nextID: 1}
}

func (m *mockLearningRecordRepo) Create(_ context.Context, r *model.LearningRecord) error {
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	m.records[r.ID] = r
	return nil
}

func (m *mockLearningRecordRepo) GetByID(_ context.Context, id uint) (*model.LearningRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLearningRecordRepo) Delete(_ context.Context, id uint) error {
	delete(m.records, id)
	return nil
}

func (m *mockLearningRecordRepo) List(_ context.Context, filter repository.LearningRecordFilter, offset, limit int) ([]model.LearningRecord, int64, error) {
	var result []model.LearningRecord
	for _, id := range sortedIDs(m.records) {
		r := m.records[id]
		if filter.StudentID != nil && r.StudentID != *filter.StudentID {
			continue
		}
		if filter.CourseID != nil && r.CourseID != *filter.CourseID {
			continue
		}
		if filter.ContentType != "" && r.ContentType != filter.ContentType {
			continue
		}
		result = append(result, *r)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockLearningRecordRepo) ListByStudent(_ context.Context, studentID uint) ([]model.LearningRecord, error) {
	var result []model.LearningRecord
	for _, r := range m.records {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (m *mockLearningRecordRepo) StatsByStudent(_ context.Context, studentID uint) (*repository.LearningStats, error) {
	stats := &repository.LearningStats{}
	var progress, score float64
	var scored int
	for _, r := range m.records {
		if r.StudentID != studentID {
			continue
		}
		stats.Total++
		if r.Progress >= 100 {
			stats.Completed++
		}
		progress += r.Progress
		stats.TotalDuration += int64(r.Duration)
		if r.Score != nil {
			score += *r.Score
			scored++
		}
	}
	if stats.Total > 0 {
		stats.AvgProgress = progress / float64(stats.Total)
	}
	if scored > 0 {
		avg := score / float64(scored)
		stats.AvgScore = &avg
	}
	return stats, nil
}

func (m *mockLearningRecordRepo) DailyActivity(_ context.Context, since time.Time) ([]repository.DailyActivityRow, error) {
	days := make(map[string]*repository.DailyActivityRow)
	students := make(map[string]map[uint]bool)
	for _, r := range m.records {
		if r.StartTime.Before(since) {
			continue
		}
		day := r.StartTime.Format("2006-01-02")
		if days[day] == nil {
			days[day] = &repository.DailyActivityRow{Day: day}
			students[day] = make(map[uint]bool)
		}
		days[day].Records++
		students[day][r.StudentID] = true
	}
	var rows []repository.DailyActivityRow
	for day, row := range days {
		row.ActiveStudents = int64(len(students[day]))
		rows = append(rows, *row)
	}
	return rows, nil
}

// ── Mock ResourceRepository ──

type mockResourceRepo struct {
	resources map[uint]*model.Resource
	nextID    uint
	createErr error
	// beforeStatusUpdate 在条件更新前执行，用于模拟并发写入
	beforeStatusUpdate func()
}

func newMockResourceRepo() *mockResourceRepo {
	return &mockResourceRepo{resources: make(map[uint]*model.Resource), nextID: 1}
}

func (m *mockResourceRepo) Create(_ context.Context, r *model.Resource) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = m.nextID
	m.nextID++
	m.resources[r.ID] = r
	return nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id uint) (*model.Resource, error) {
	if r, ok := m.resources[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResourceRepo) Update(_ context.Context, r *model.Resource) error {
	copied := *r
	m.resources[r.ID] = &copied
	return nil
}

func (m *mockResourceRepo) UpdateStatusIf(_ context.Context, r *model.Resource, from string) error {
	if m.beforeStatusUpdate != nil {
		m.beforeStatusUpdate()
	}
	stored, ok := m.resources[r.ID]
	if !ok || stored.Status != from {
		return apperrors.ErrStatusConflict
	}
	stored.Status = r.Status
	stored.ReviewerID = r.ReviewerID
	stored.ReviewTime = r.ReviewTime
	stored.ReviewComment = r.ReviewComment
	return nil
}

func (m *mockResourceRepo) UpdateMetadata(_ context.Context, id uint, metadata datatypes.JSON) error {
	r, ok := m.resources[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Metadata = metadata
	return nil
}

func (m *mockResourceRepo) Delete(_ context.Context, id uint) error {
	delete(m.resources, id)
	return nil
}

func (m *mockResourceRepo) List(_ context.Context, filter repository.ResourceFilter, offset, limit int) ([]model.Resource, int64, error) {
	var result []model.Resource
	for _, id := range sortedIDs(m.resources) {
		r := m.resources[id]
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(r.Name, filter.Keyword) {
			continue
		}
		result = append(result, *r)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockResourceRepo) IncrementDownload(_ context.Context, id uint) error {
	if r, ok := m.resources[id]; ok {
		r.DownloadCount++
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockResourceRepo) IncrementView(_ context.Context, id uint) error {
	if r, ok := m.resources[id]; ok {
		r.ViewCount++
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockResourceRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, r := range m.resources {
		counts[r.Status]++
	}
	return counts, nil
}

func (m *mockResourceRepo) CountByType(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, r := range m.resources {
		counts[r.Type]++
	}
	return counts, nil
}

func (m *mockResourceRepo) Totals(_ context.Context) (*repository.ResourceTotals, error) {
	totals := &repository.ResourceTotals{}
	for _, r := range m.resources {
		totals.Downloads += int64(r.DownloadCount)
		totals.Views += int64(r.ViewCount)
	}
	return totals, nil
}

func (m *mockResourceRepo) TopByDownloads(_ context.Context, n int) ([]model.Resource, error) {
	var result []model.Resource
	for _, r := range m.resources {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DownloadCount > result[j].DownloadCount })
	if len(result) > n {
		result = result[:n]
	}
	return result, nil
}

// ── Mock DataImportRepository ──

type mockDataImportRepo struct {
	records map[uint]*model.DataImport
	nextID  uint
}

func newMockDataImportRepo() *mockDataImportRepo {
	return &mockDataImportRepo{records: make(map[uint]*model.DataImport), nextID: 1}
}

func (m *mockDataImportRepo) Create(_ context.Context, r *model.DataImport) error {
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	copied := *r
	m.records[r.ID] = &copied
	return nil
}

func (m *mockDataImportRepo) Update(_ context.Context, r *model.DataImport) error {
	copied := *r
	m.records[r.ID] = &copied
	return nil
}

func (m *mockDataImportRepo) List(_ context.Context, status string, offset, limit int) ([]model.DataImport, int64, error) {
	var result []model.DataImport
	for _, id := range sortedIDs(m.records) {
		r := m.records[id]
		if status != "" && r.Status != status {
			continue
		}
		result = append(result, *r)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

// ── Mock AIModelRepository ──

type mockAIModelRepo struct {
	models map[uint]*model.AIModel
	nextID uint
	// beforeStatusUpdate 在条件更新前执行，用于模拟并发写入
	beforeStatusUpdate func()
}

func newMockAIModelRepo() *mockAIModelRepo {
	return &mockAIModelRepo{models: make(map[uint]*model.AIModel), nextID: 1}
}

func (m *mockAIModelRepo) Create(_ context.Context, am *model.AIModel) error {
	am.ID = m.nextID
	m.nextID++
	m.models[am.ID] = am
	return nil
}

func (m *mockAIModelRepo) GetByID(_ context.Context, id uint) (*model.AIModel, error) {
	if am, ok := m.models[id]; ok {
		copied := *am
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAIModelRepo) Update(_ context.Context, am *model.AIModel) error {
	copied := *am
	m.models[am.ID] = &copied
	return nil
}

func (m *mockAIModelRepo) UpdateStatusIf(_ context.Context, am *model.AIModel, from string) error {
	if m.beforeStatusUpdate != nil {
		m.beforeStatusUpdate()
	}
	stored, ok := m.models[am.ID]
	if !ok || stored.Status != from {
		return apperrors.ErrStatusConflict
	}
	stored.Status = am.Status
	stored.LastTrainedAt = am.LastTrainedAt
	return nil
}

func (m *mockAIModelRepo) Delete(_ context.Context, id uint) error {
	delete(m.models, id)
	return nil
}

func (m *mockAIModelRepo) List(_ context.Context, filter repository.AIModelFilter, offset, limit int) ([]model.AIModel, int64, error) {
	var result []model.AIModel
	for _, id := range sortedIDs(m.models) {
		am := m.models[id]
		if filter.Type != "" && am.Type != filter.Type {
			continue
		}
		if filter.Status != "" && am.Status != filter.Status {
			continue
		}
		result = append(result, *am)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockAIModelRepo) ListAll(_ context.Context) ([]model.AIModel, error) {
	var result []model.AIModel
	for _, id := range sortedIDs(m.models) {
		result = append(result, *m.models[id])
	}
	return result, nil
}

// ── Mock SystemLogRepository ──

type mockSystemLogRepo struct {
	logs []model.SystemLog
}

func (m *mockSystemLogRepo) Create(_ context.Context, log *model.SystemLog) error {
	log.ID = uint(len(m.logs) + 1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockSystemLogRepo) List(_ context.Context, filter repository.SystemLogFilter, offset, limit int) ([]model.SystemLog, int64, error) {
	var result []model.SystemLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		l := m.logs[i]
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Level != "" && l.Level != filter.Level {
			continue
		}
		result = append(result, l)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockSystemLogRepo) actions() []string {
	var out []string
	for _, l := range m.logs {
		out = append(out, l.Action)
	}
	return out
}

// ── Mock HomeworkRepository ──

type mockHomeworkRepo struct {
	items  map[uint]*model.Homework
	nextID uint
}

func newMockHomeworkRepo() *mockHomeworkRepo {
	return &mockHomeworkRepo{items: make(map[uint]*model.Homework), nextID: 1}
}

func (m *mockHomeworkRepo) Create(_ context.Context, h *model.Homework) error {
	h.ID = m.nextID
	m.nextID++
	copied := *h
	m.items[h.ID] = &copied
	return nil
}

func (m *mockHomeworkRepo) GetByID(_ context.Context, id uint) (*model.Homework, error) {
	if h, ok := m.items[id]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHomeworkRepo) Grade(_ context.Context, h *model.Homework) error {
	stored, ok := m.items[h.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = h.Status
	stored.Score = h.Score
	stored.Feedback = h.Feedback
	stored.GraderID = h.GraderID
	stored.GradedAt = h.GradedAt
	return nil
}

func (m *mockHomeworkRepo) Delete(_ context.Context, id uint) error {
	delete(m.items, id)
	return nil
}

func (m *mockHomeworkRepo) List(_ context.Context, filter repository.HomeworkFilter, offset, limit int) ([]model.Homework, int64, error) {
	var result []model.Homework
	for _, id := range sortedIDs(m.items) {
		h := m.items[id]
		if filter.StudentID != 0 && h.StudentID != filter.StudentID {
			continue
		}
		if filter.Subject != "" && h.Subject != filter.Subject {
			continue
		}
		if filter.Status != "" && h.Status != filter.Status {
			continue
		}
		result = append(result, *h)
	}
	return page(result, offset, limit), int64(len(result)), nil
}
