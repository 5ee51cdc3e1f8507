package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
)

func setupTestCourseService() (CourseService, *mockRepos) {
	repo, mocks := newMockRepository()
	return NewCourseService(repo, zap.NewNop()), mocks
}

func seedStudent(mocks *mockRepos, studentID string) *model.Student {
	s := &model.Student{StudentID: studentID, Name: "学生" + studentID, Gender: "M", Grade: "高一", ClassName: "1班", Phone: "13800138000"}
	_ = mocks.student.Create(context.Background(), s)
	return s
}

func TestCourseService_CreateThenGet(t *testing.T) {
	svc, mocks := setupTestCourseService()
	teacher := &model.Teacher{TeacherID: "T001", Name: "李老师"}
	mocks.teacher.Create(context.Background(), teacher)

	created, err := svc.Create(context.Background(), &dto.CreateCourseRequest{Name: "高等数学", Code: "MATH101", TeacherID: uintPtr(teacher.ID)})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got.Code != "MATH101" || got.TeacherID == nil || *got.TeacherID != teacher.ID {
		t.Errorf("读取到的课程与创建的不一致: %+v", got)
	}
}

func TestCourseService_Create_UnknownTeacher(t *testing.T) {
	svc, _ := setupTestCourseService()

	_, err := svc.Create(context.Background(), &dto.CreateCourseRequest{Name: "高等数学", Code: "MATH101", TeacherID: uintPtr(9)})
	if !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("期望 ErrTeacherNotFound，实际: %v", err)
	}
}

func TestCourseService_Create_DuplicateCode(t *testing.T) {
	svc, _ := setupTestCourseService()
	svc.Create(context.Background(), &dto.CreateCourseRequest{Name: "高等数学", Code: "MATH101"})

	_, err := svc.Create(context.Background(), &dto.CreateCourseRequest{Name: "线性代数", Code: "MATH101"})
	if !errors.Is(err, ErrCourseCodeExists) {
		t.Errorf("期望 ErrCourseCodeExists，实际: %v", err)
	}
}

func TestCourseService_Delete_Missing(t *testing.T) {
	svc, _ := setupTestCourseService()

	if err := svc.Delete(context.Background(), 3, 1); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

// ── 选课 ──

func TestCourseService_Enroll(t *testing.T) {
	svc, mocks := setupTestCourseService()
	course, _ := svc.Create(context.Background(), &dto.CreateCourseRequest{Name: "高等数学", Code: "MATH101"})
	student := seedStudent(mocks, "S001")

	e, err := svc.Enroll(context.Background(), course.ID, &dto.EnrollRequest{StudentID: student.ID})
	if err != nil {
		t.Fatalf("Enroll 应成功: %v", err)
	}
	if e.Status != model.EnrollmentActive {
		t.Errorf("期望默认状态 active，实际=%s", e.Status)
	}

	_, err = svc.Enroll(context.Background(), course.ID, &dto.EnrollRequest{StudentID: student.ID})
	if !errors.Is(err, ErrEnrollmentExists) {
		t.Errorf("重复选课期望 ErrEnrollmentExists，实际: %v", err)
	}

	list, err := svc.ListStudentEnrollments(context.Background(), student.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("期望学生有 1 条选课，实际 len=%d err=%v", len(list), err)
	}
}

func TestCourseService_Enroll_UnknownStudent(t *testing.T) {
	svc, _ := setupTestCourseService()
	course, _ := svc.Create(context.Background(), &dto.CreateCourseRequest{Name: "高等数学", Code: "MATH101"})

	_, err := svc.Enroll(context.Background(), course.ID, &dto.EnrollRequest{StudentID: 42})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestCourseService_UpdateEnrollment_AndUnenroll(t *testing.T) {
	svc, mocks := setupTestCourseService()
	course, _ := svc.Create(context.Background(), &dto.CreateCourseRequest{Name: "高等数学", Code: "MATH101"})
	student := seedStudent(mocks, "S001")
	svc.Enroll(context.Background(), course.ID, &dto.EnrollRequest{StudentID: student.ID})

	e, err := svc.UpdateEnrollment(context.Background(), course.ID, student.ID, &dto.UpdateEnrollmentRequest{Status: model.EnrollmentCompleted})
	if err != nil {
		t.Fatalf("UpdateEnrollment 应成功: %v", err)
	}
	if e.Status != model.EnrollmentCompleted {
		t.Errorf("期望状态 completed，实际=%s", e.Status)
	}

	if err := svc.Unenroll(context.Background(), course.ID, student.ID); err != nil {
		t.Fatalf("Unenroll 应成功: %v", err)
	}
	if err := svc.Unenroll(context.Background(), course.ID, student.ID); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("期望 ErrEnrollmentNotFound，实际: %v", err)
	}
}
