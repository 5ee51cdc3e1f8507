package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"eduinsight/backend/internal/dto"
)

func setupTestStudentService() (StudentService, *mockRepos) {
	repo, mocks := newMockRepository()
	return NewStudentService(repo, zap.NewNop()), mocks
}

func newStudentRequest(studentID string) *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		StudentID: studentID,
		Name:      "张三",
		Gender:    "M",
		Grade:     "高一",
		ClassName: "1班",
		Phone:     "13800138000",
		Parent: dto.ParentRequest{
			Name:  "张父",
			Phone: "13900139000",
		},
	}
}

func TestStudentService_CreateThenGet(t *testing.T) {
	svc, _ := setupTestStudentService()

	created, err := svc.Create(context.Background(), newStudentRequest("S001"))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got.StudentID != "S001" || got.Parent.Name != "张父" {
		t.Errorf("读取到的学生与创建的不一致: %+v", got)
	}
	if got.Parent.Address != nil {
		t.Error("未提供的家长地址应为空")
	}
}

func TestStudentService_Create_DuplicateStudentID(t *testing.T) {
	svc, _ := setupTestStudentService()
	if _, err := svc.Create(context.Background(), newStudentRequest("S001")); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	_, err := svc.Create(context.Background(), newStudentRequest("S001"))
	if !errors.Is(err, ErrStudentIDExists) {
		t.Errorf("期望 ErrStudentIDExists，实际: %v", err)
	}
}

func TestStudentService_Update_ParentMerge(t *testing.T) {
	svc, _ := setupTestStudentService()
	created, _ := svc.Create(context.Background(), newStudentRequest("S001"))

	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateStudentRequest{
		Parent: &dto.UpdateParentRequest{Address: strPtr("北京市海淀区")},
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Parent.Address == nil || *updated.Parent.Address != "北京市海淀区" {
		t.Errorf("期望更新家长地址，实际=%v", updated.Parent.Address)
	}
	if updated.Parent.Name != "张父" || updated.Parent.Phone != "13900139000" {
		t.Errorf("未提供的家长字段应保持不变: %+v", updated.Parent)
	}
}

func TestStudentService_Update_StudentIDConflict(t *testing.T) {
	svc, _ := setupTestStudentService()
	svc.Create(context.Background(), newStudentRequest("S001"))
	second, _ := svc.Create(context.Background(), newStudentRequest("S002"))

	_, err := svc.Update(context.Background(), second.ID, &dto.UpdateStudentRequest{StudentID: strPtr("S001")})
	if !errors.Is(err, ErrStudentIDExists) {
		t.Errorf("期望 ErrStudentIDExists，实际: %v", err)
	}
}

func TestStudentService_Delete(t *testing.T) {
	svc, _ := setupTestStudentService()
	created, _ := svc.Create(context.Background(), newStudentRequest("S001"))

	if err := svc.Delete(context.Background(), created.ID, 1); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, 1); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("重复删除期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestStudentService_List_FilterGrade(t *testing.T) {
	svc, _ := setupTestStudentService()
	svc.Create(context.Background(), newStudentRequest("S001"))
	other := newStudentRequest("S002")
	other.Grade = "高二"
	svc.Create(context.Background(), other)

	list, total, err := svc.List(context.Background(), &dto.StudentListRequest{Grade: "高二"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].StudentID != "S002" {
		t.Errorf("期望只返回 S002，实际 total=%d list=%+v", total, list)
	}
}
