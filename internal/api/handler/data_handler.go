package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/api/middleware"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DataHandler 数据导入 HTTP 处理器
type DataHandler struct {
	importSvc    service.ImportService
	maxFileBytes int64
}

// NewDataHandler 创建 DataHandler；maxFileBytes<=0 时不限制文件大小
func NewDataHandler(importSvc service.ImportService, maxFileBytes int64) *DataHandler {
	return &DataHandler{importSvc: importSvc, maxFileBytes: maxFileBytes}
}

// Import 导入学生名单
// POST /api/v1/data/import  multipart/form-data, field="file"
func (h *DataHandler) Import(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return
		}
		response.BadRequest(c, 18000, "请上传 .csv 或 .xlsx 文件")
		return
	}
	if h.maxFileBytes > 0 && fh.Size > h.maxFileBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, 18006, "文件过大")
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 18000, "请上传 .csv 或 .xlsx 文件")
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(c.Request.Context(), fh.Filename, file, session.UserID)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, result)
}

// History 导入历史
// GET /api/v1/data/imports
func (h *DataHandler) History(c *gin.Context) {
	var req dto.DataImportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.importSvc.History(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Template 下载导入模板
// GET /api/v1/data/template
func (h *DataHandler) Template(c *gin.Context) {
	buf, filename, err := h.importSvc.Template(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.File(c, filename, xlsxContentType, buf.Bytes(), false)
}

func (h *DataHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportFileType):
		response.BadRequest(c, 18001, "仅支持 .csv 或 .xlsx 文件")
	case errors.Is(err, service.ErrImportFileUnreadable):
		response.BadRequest(c, 18002, "文件无法解析")
	case errors.Is(err, service.ErrImportHeaderInvalid):
		// 缺少哪些列写在 details 里
		response.ErrorWithDetails(c, http.StatusBadRequest, 18003, "表头不正确", err.Error())
	case errors.Is(err, service.ErrImportEmpty):
		response.BadRequest(c, 18004, "文件中没有数据行")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 18005, "数据行数超过上限")
	default:
		response.InternalError(c)
	}
}
