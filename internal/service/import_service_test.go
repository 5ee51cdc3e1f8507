package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"eduinsight/backend/config"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
)

func setupTestImportService() (ImportService, *mockRepos) {
	repo, mocks := newMockRepository()
	return NewImportService(&config.ImportConfig{MaxRows: 100}, repo, zap.NewNop()), mocks
}

var sampleRows = [][]string{
	{"学号", "姓名", "性别", "年级", "班级", "联系电话", "家长姓名", "家长电话", "家长地址"},
	{"S001", "张三", "男", "高一", "1班", "13800138001", "张父", "13900139001", "北京"},
	{"S002", "李四", "F", "高一", "1班", "13800138002", "李母", "13900139002", ""},
	{"S003", "王五", "男", "高一", "2班", "12345", "王父", "13900139003", ""},       // 电话格式错误
	{"S001", "赵六", "女", "高一", "2班", "13800138004", "赵母", "13900139004", ""}, // 文件内学号重复
	{"S900", "孙七", "男", "高二", "3班", "13800138005", "孙父", "13900139005", ""}, // 库中已存在
	{"S004", "", "男", "高二", "3班", "13800138006", "周父", "13900139006", ""},     // 姓名为空
	{"S005", "吴九", "M", "高二", "3班", "13800138007", "吴父", "13900139007", ""},
}

func toCSV(rows [][]string) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func toXLSX(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &values))
	}
	buf := new(bytes.Buffer)
	require.NoError(t, f.Write(buf))
	return buf
}

func TestImportService_MixedRows(t *testing.T) {
	svc, mocks := setupTestImportService()
	seedStudent(mocks, "S900")

	resp, err := svc.Import(context.Background(), "students.csv", strings.NewReader(toCSV(sampleRows)), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Record.SuccessCount)
	assert.Equal(t, 4, resp.Record.FailedCount)
	assert.Equal(t, model.ImportFailed, resp.Record.Status)
	require.Len(t, resp.Errors, 4)

	rows := make([]int, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		rows = append(rows, e.Row)
	}
	assert.Equal(t, []int{4, 5, 6, 7}, rows)
	assert.Contains(t, resp.Errors[1].Reason, "第 2 行")

	// 1 条预置 + 3 条导入
	assert.Len(t, mocks.student.students, 4)
	stored := mocks.dataImport.records[resp.Record.ID]
	assert.Equal(t, model.ImportFailed, stored.Status)
	assert.Equal(t, []string{"data.import"}, mocks.systemLog.actions())

	s, err := mocks.student.GetByStudentID(context.Background(), "S001")
	require.NoError(t, err)
	assert.Equal(t, "M", s.Gender)
	require.NotNil(t, s.Parent.Address)
	assert.Equal(t, "北京", *s.Parent.Address)
}

func TestImportService_AllValid(t *testing.T) {
	svc, mocks := setupTestImportService()
	rows := [][]string{sampleRows[0], sampleRows[1], sampleRows[2]}

	resp, err := svc.Import(context.Background(), "students.xlsx", toXLSX(t, rows), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ImportSuccess, resp.Record.Status)
	assert.Equal(t, 2, resp.Record.SuccessCount)
	assert.Equal(t, 0, resp.Record.FailedCount)
	assert.Empty(t, resp.Errors)
	assert.Len(t, mocks.student.students, 2)
}

func TestImportService_InsertFailureCountsAsFailed(t *testing.T) {
	svc, mocks := setupTestImportService()
	mocks.student.createErr = errors.New("db down")
	rows := [][]string{sampleRows[0], sampleRows[1]}

	resp, err := svc.Import(context.Background(), "students.csv", strings.NewReader(toCSV(rows)), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Record.SuccessCount)
	assert.Equal(t, 1, resp.Record.FailedCount)
	assert.Equal(t, model.ImportFailed, resp.Record.Status)
}

func TestImportService_BadExtension_NoRecord(t *testing.T) {
	svc, mocks := setupTestImportService()

	_, err := svc.Import(context.Background(), "students.txt", strings.NewReader(toCSV(sampleRows)), 1)
	assert.ErrorIs(t, err, ErrImportFileType)
	assert.Empty(t, mocks.dataImport.records)
}

func TestImportService_BadHeader(t *testing.T) {
	svc, mocks := setupTestImportService()
	content := "学号,姓名\nS001,张三\n"

	_, err := svc.Import(context.Background(), "students.csv", strings.NewReader(content), 1)
	require.ErrorIs(t, err, ErrImportHeaderInvalid)
	assert.Contains(t, err.Error(), "性别")

	require.Len(t, mocks.dataImport.records, 1)
	for _, r := range mocks.dataImport.records {
		assert.Equal(t, model.ImportFailed, r.Status)
		assert.Equal(t, 0, r.SuccessCount)
		assert.Equal(t, 0, r.FailedCount)
		require.NotNil(t, r.ErrorMessage)
	}
	assert.Empty(t, mocks.student.students)
}

// 只有表头（或其余均为空行）的文件记为 failed 0/0，并返回 ErrImportEmpty
func TestImportService_HeaderOnly(t *testing.T) {
	for name, content := range map[string]string{
		"仅表头":   toCSV(sampleRows[:1]),
		"表头加空行": toCSV(sampleRows[:1]) + ",,,,,,,,\n\n",
	} {
		t.Run(name, func(t *testing.T) {
			svc, mocks := setupTestImportService()

			resp, err := svc.Import(context.Background(), "students.csv", strings.NewReader(content), 1)
			require.ErrorIs(t, err, ErrImportEmpty)
			assert.Nil(t, resp)

			require.Len(t, mocks.dataImport.records, 1)
			for _, r := range mocks.dataImport.records {
				assert.Equal(t, model.ImportFailed, r.Status)
				assert.Equal(t, 0, r.SuccessCount)
				assert.Equal(t, 0, r.FailedCount)
				require.NotNil(t, r.ErrorMessage)
				assert.Equal(t, ErrImportEmpty.Error(), *r.ErrorMessage)
			}
		})
	}
}

func TestImportService_AbortTruncatesByRune(t *testing.T) {
	svc, mocks := setupTestImportService()
	s := svc.(*importService)
	record := &model.DataImport{Filename: "a.csv", Status: model.ImportProcessing}
	require.NoError(t, mocks.dataImport.Create(context.Background(), record))

	cause := errors.New(strings.Repeat("表头", 400))
	assert.ErrorIs(t, s.abort(context.Background(), record, cause), cause)

	msg := *mocks.dataImport.records[record.ID].ErrorMessage
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, maxErrorMessageRunes, utf8.RuneCountInString(msg))
	assert.Equal(t, "短消息", truncateRunes("短消息", maxErrorMessageRunes))
}

func TestImportService_UnreadableXLSX(t *testing.T) {
	svc, mocks := setupTestImportService()

	_, err := svc.Import(context.Background(), "students.xlsx", strings.NewReader("not a zip"), 1)
	assert.ErrorIs(t, err, ErrImportFileUnreadable)
	require.Len(t, mocks.dataImport.records, 1)
}

func TestImportService_TooManyRows(t *testing.T) {
	repo, mocks := newMockRepository()
	svc := NewImportService(&config.ImportConfig{MaxRows: 1}, repo, zap.NewNop())
	rows := [][]string{sampleRows[0], sampleRows[1], sampleRows[2]}

	_, err := svc.Import(context.Background(), "students.csv", strings.NewReader(toCSV(rows)), 1)
	assert.ErrorIs(t, err, ErrImportTooManyRows)
	assert.Empty(t, mocks.student.students)
}

func TestImportService_History(t *testing.T) {
	svc, _ := setupTestImportService()
	svc.Import(context.Background(), "a.csv", strings.NewReader(toCSV(sampleRows[:2])), 1)
	svc.Import(context.Background(), "b.csv", strings.NewReader("学号\n"), 1)

	records, total, err := svc.History(context.Background(), &dto.DataImportListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "b.csv", records[0].Filename, "最新的导入排在最前")

	_, total, err = svc.History(context.Background(), &dto.DataImportListRequest{Status: model.ImportSuccess})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

// ── 表格解析 ──

func TestReadSheetRows_CSVAndXLSXAgree(t *testing.T) {
	fromCSV, err := readSheetRows("a.csv", strings.NewReader(toCSV(sampleRows[:3])))
	require.NoError(t, err)
	fromXLSX, err := readSheetRows("a.xlsx", toXLSX(t, sampleRows[:3]))
	require.NoError(t, err)

	index, err := mapStudentHeader(fromCSV[0])
	require.NoError(t, err)
	for i := 1; i < 3; i++ {
		a, errA := parseStudentRow(index, fromCSV[i])
		b, errB := parseStudentRow(index, fromXLSX[i])
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, a, b, "第 %d 行解析结果应一致", i+1)
	}
}

func TestReadCSVRows_StripsBOM(t *testing.T) {
	rows, err := readCSVRows(strings.NewReader("\ufeff学号,姓名\nS001,张三\n"))
	require.NoError(t, err)
	assert.Equal(t, "学号", rows[0][0])
}

func TestMapStudentHeader_EnglishAliases(t *testing.T) {
	header := []string{"student_id", "name", "gender", "grade", "class_name", "phone", "parent_name", "parent_phone"}
	index, err := mapStudentHeader(header)
	require.NoError(t, err)
	assert.Equal(t, 7, index["parent_phone"])
	_, ok := index["parent_address"]
	assert.False(t, ok)
}

func TestImportService_Template(t *testing.T) {
	svc, _ := setupTestImportService()

	buf, filename, err := svc.Template(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "student_import_template.xlsx", filename)

	rows, err := readXLSXRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	index, err := mapStudentHeader(rows[0])
	require.NoError(t, err)
	_, err = parseStudentRow(index, rows[1])
	assert.NoError(t, err, "模板示例行应能通过校验")
}
