package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
)

func setupTestLearningRecordService() (LearningRecordService, *mockRepos, *model.Student, *model.Course) {
	repo, mocks := newMockRepository()
	student := seedStudent(mocks, "S001")
	course := &model.Course{Name: "高等数学", Code: "MATH101"}
	mocks.course.Create(context.Background(), course)
	return NewLearningRecordService(repo, zap.NewNop()), mocks, student, course
}

func TestLearningRecordService_Create_DerivesDuration(t *testing.T) {
	svc, _, student, course := setupTestLearningRecordService()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	end := start.Add(45 * time.Minute)

	record, err := svc.Create(context.Background(), &dto.CreateLearningRecordRequest{
		StudentID:   student.ID,
		CourseID:    course.ID,
		ContentType: "video",
		ContentID:   "lesson-1",
		StartTime:   start,
		EndTime:     &end,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if record.Duration != 45*60 {
		t.Errorf("期望 Duration=2700，实际=%d", record.Duration)
	}
	if record.ContentType != model.ContentVideo {
		t.Errorf("期望 ContentType=video，实际=%s", record.ContentType)
	}
}

func TestLearningRecordService_Create_ExplicitDurationWins(t *testing.T) {
	svc, _, student, course := setupTestLearningRecordService()
	start := time.Now().Add(-time.Hour)
	end := time.Now()
	duration := 120

	record, err := svc.Create(context.Background(), &dto.CreateLearningRecordRequest{
		StudentID: student.ID, CourseID: course.ID, ContentType: "quiz", ContentID: "q1",
		StartTime: start, EndTime: &end, Duration: &duration,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if record.Duration != 120 {
		t.Errorf("显式给出的 Duration 应保留，实际=%d", record.Duration)
	}
}

func TestLearningRecordService_Create_Invalid(t *testing.T) {
	svc, _, student, course := setupTestLearningRecordService()
	start := time.Now()
	before := start.Add(-time.Minute)

	tests := []struct {
		name string
		req  *dto.CreateLearningRecordRequest
		want error
	}{
		{"未知内容类型", &dto.CreateLearningRecordRequest{StudentID: student.ID, CourseID: course.ID, ContentType: "podcast", ContentID: "x", StartTime: start}, ErrInvalidContentType},
		{"结束早于开始", &dto.CreateLearningRecordRequest{StudentID: student.ID, CourseID: course.ID, ContentType: "video", ContentID: "x", StartTime: start, EndTime: &before}, ErrInvalidTimeRange},
		{"学生不存在", &dto.CreateLearningRecordRequest{StudentID: 99, CourseID: course.ID, ContentType: "video", ContentID: "x", StartTime: start}, ErrStudentNotFound},
		{"课程不存在", &dto.CreateLearningRecordRequest{StudentID: student.ID, CourseID: 99, ContentType: "video", ContentID: "x", StartTime: start}, ErrCourseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

func TestLearningRecordService_Delete_Missing(t *testing.T) {
	svc, _, _, _ := setupTestLearningRecordService()

	if err := svc.Delete(context.Background(), 5); !errors.Is(err, ErrLearningRecordNotFound) {
		t.Errorf("期望 ErrLearningRecordNotFound，实际: %v", err)
	}
}

func TestLearningRecordService_StudentCalendar(t *testing.T) {
	svc, _, student, course := setupTestLearningRecordService()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	svc.Create(context.Background(), &dto.CreateLearningRecordRequest{
		StudentID: student.ID, CourseID: course.ID, ContentType: "video", ContentID: "lesson-1",
		StartTime: start, EndTime: &end,
	})
	// 没有结束时间的记录不生成事件
	svc.Create(context.Background(), &dto.CreateLearningRecordRequest{
		StudentID: student.ID, CourseID: course.ID, ContentType: "reading", ContentID: "chapter-2",
		StartTime: start.Add(time.Hour),
	})

	out, err := svc.StudentCalendar(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("StudentCalendar 应成功: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Error("输出应为 iCalendar 格式")
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 1 {
		t.Errorf("期望 1 个 VEVENT，实际=%d", n)
	}
	if !strings.Contains(out, "learning-record-1@eduinsight") {
		t.Error("期望事件 UID 包含记录 ID")
	}
}

func TestLearningRecordService_StudentCalendar_UnknownStudent(t *testing.T) {
	svc, _, _, _ := setupTestLearningRecordService()

	if _, err := svc.StudentCalendar(context.Background(), 99); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestLearningRecordService_StudentProgress(t *testing.T) {
	svc, mocks, student, course := setupTestLearningRecordService()
	full, half := 100.0, 50.0
	score := 90.0
	svc.Create(context.Background(), &dto.CreateLearningRecordRequest{
		StudentID: student.ID, CourseID: course.ID, ContentType: "quiz", ContentID: "q1",
		StartTime: time.Now(), Progress: &full, Score: &score,
	})
	svc.Create(context.Background(), &dto.CreateLearningRecordRequest{
		StudentID: student.ID, CourseID: course.ID, ContentType: "video", ContentID: "v1",
		StartTime: time.Now(), Progress: &half,
	})
	mocks.enrollment.Create(context.Background(), &model.Enrollment{StudentID: student.ID, CourseID: course.ID, Status: model.EnrollmentActive})

	p, err := svc.StudentProgress(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("StudentProgress 应成功: %v", err)
	}
	if p.TotalRecords != 2 || p.CompletedRecords != 1 {
		t.Errorf("期望 2 条记录 1 条完成，实际 total=%d completed=%d", p.TotalRecords, p.CompletedRecords)
	}
	if p.AverageProgress != 75 {
		t.Errorf("期望平均进度 75，实际=%v", p.AverageProgress)
	}
	if p.AverageScore == nil || *p.AverageScore != 90 {
		t.Errorf("期望平均分 90，实际=%v", p.AverageScore)
	}
	if p.ActiveCourses != 1 {
		t.Errorf("期望 1 门在读课程，实际=%d", p.ActiveCourses)
	}
}
