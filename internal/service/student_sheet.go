package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"eduinsight/backend/internal/model"
	"eduinsight/backend/pkg/validator"
)

// ── 学生名单表格 ──────────────────────────────────────────────
//
// 导入与模板共用同一套列定义：中文表头为准，英文字段名作为别名。
// 表头行为第 1 行，数据从第 2 行开始，行号与表格软件中看到的一致。
// ─────────────────────────────────────────────────────────────

type sheetColumn struct {
	Key      string // 英文别名
	Header   string // 中文表头
	Required bool
	Example  string
}

var studentColumns = []sheetColumn{
	{"student_id", "学号", true, "2026001"},
	{"name", "姓名", true, "张三"},
	{"gender", "性别", true, "男"},
	{"grade", "年级", true, "高一"},
	{"class_name", "班级", true, "1班"},
	{"phone", "联系电话", true, "13800138000"},
	{"parent_name", "家长姓名", true, "张父"},
	{"parent_phone", "家长电话", true, "13900139000"},
	{"parent_address", "家长地址", false, "北京市海淀区"},
}

const studentSheetName = "学生名单"

// readSheetRows 按扩展名读取 csv / xlsx 的全部行
func readSheetRows(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSVRows(r)
	case ".xlsx":
		return readXLSXRows(r)
	default:
		return nil, ErrImportFileType
	}
}

func readCSVRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	// Excel 另存的 csv 带 UTF-8 BOM
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("工作簿中没有工作表")
	}
	return f.GetRows(sheets[0])
}

// mapStudentHeader 解析表头，返回 列键 → 列下标
func mapStudentHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, col := range studentColumns {
			if strings.EqualFold(h, col.Key) || h == col.Header {
				index[col.Key] = i
			}
		}
	}

	var missing []string
	for _, col := range studentColumns {
		if _, ok := index[col.Key]; col.Required && !ok {
			missing = append(missing, col.Header)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: 缺少列 %s", ErrImportHeaderInvalid, strings.Join(missing, "、"))
	}
	return index, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseStudentRow 校验单行并转换为学生档案
func parseStudentRow(index map[string]int, row []string) (*model.Student, error) {
	get := func(key string) string {
		i, ok := index[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, col := range studentColumns {
		if col.Required && get(col.Key) == "" {
			return nil, fmt.Errorf("%s不能为空", col.Header)
		}
	}

	gender, ok := validator.NormalizeGender(get("gender"))
	if !ok {
		return nil, fmt.Errorf("性别只能是 男/女 或 M/F")
	}
	if !validator.IsMobile(get("phone")) {
		return nil, fmt.Errorf("联系电话格式不正确")
	}
	if !validator.IsMobile(get("parent_phone")) {
		return nil, fmt.Errorf("家长电话格式不正确")
	}

	student := &model.Student{
		StudentID: get("student_id"),
		Name:      get("name"),
		Gender:    gender,
		Grade:     get("grade"),
		ClassName: get("class_name"),
		Phone:     get("phone"),
		Parent: model.Parent{
			Name:  get("parent_name"),
			Phone: get("parent_phone"),
		},
	}
	if addr := get("parent_address"); addr != "" {
		student.Parent.Address = &addr
	}
	return student, nil
}

// buildStudentTemplate 生成导入模板：表头 + 一行示例
func buildStudentTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(studentSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, col := range studentColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(studentSheetName, name, name, 16)
		f.SetCellValue(studentSheetName, cell(name, 1), col.Header)
		f.SetCellStyle(studentSheetName, cell(name, 1), cell(name, 1), headerStyle)
		// 示例行按文本写入，避免学号、电话被识别为数字
		f.SetCellStr(studentSheetName, cell(name, 2), col.Example)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
