package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eduinsight/backend/internal/api/middleware"
	"eduinsight/backend/internal/dto"
	"eduinsight/backend/internal/model"
	"eduinsight/backend/internal/service"
	"eduinsight/backend/pkg/response"
)

// ResourceHandler 教学资源 HTTP 处理器
type ResourceHandler struct {
	resourceSvc service.ResourceService
}

// NewResourceHandler 创建 ResourceHandler
func NewResourceHandler(resourceSvc service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceSvc: resourceSvc}
}

// List 资源列表
// GET /api/v1/resources
func (h *ResourceHandler) List(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.ResourceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resources, total, err := h.resourceSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	for i := range resources {
		hideUnapprovedURL(&resources[i], session)
	}

	response.OKPage(c, resources, total, req.GetPage(), req.GetPageSize())
}

// Get 资源详情
// GET /api/v1/resources/:id
func (h *ResourceHandler) Get(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resource, err := h.resourceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}
	hideUnapprovedURL(resource, session)

	response.OK(c, resource)
}

// Create 新建资源，状态固定为 pending
// POST /api/v1/resources
//
// 支持两种方式：
//   - 文件上传: multipart/form-data, field="file"，附带 name / type
//   - 外部地址: application/json, body={"name","type","url"}
func (h *ResourceHandler) Create(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.upload(c, session.UserID)
		return
	}

	var req dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resource, err := h.resourceSvc.Create(c.Request.Context(), &req, session.UserID)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.Created(c, resource)
}

func (h *ResourceHandler) upload(c *gin.Context, uploaderID uint) {
	var req dto.UploadResourceRequest
	if err := c.ShouldBind(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return
		}
		bindFailed(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 17006, "请上传资源文件")
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 17006, "请上传资源文件")
		return
	}
	defer file.Close()

	resource, err := h.resourceSvc.Upload(c.Request.Context(), &service.UploadInput{
		Name:        req.Name,
		Type:        req.Type,
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      file,
	}, uploaderID)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.Created(c, resource)
}

// Update 修改资源名称
// PUT /api/v1/resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resource, err := h.resourceSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, resource)
}

// Review 审核资源（管理员）
// POST /api/v1/resources/:id/review
func (h *ResourceHandler) Review(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resource, err := h.resourceSvc.Review(c.Request.Context(), id, &req, session.UserID)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, resource)
}

// AutoReview 调用内容检查服务给出审核建议（管理员）
// POST /api/v1/resources/:id/auto-review
func (h *ResourceHandler) AutoReview(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.resourceSvc.AutoReview(c.Request.Context(), id, session.UserID)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, result)
}

// Download 获取下载地址，仅限已通过审核的资源
// GET /api/v1/resources/:id/download
func (h *ResourceHandler) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.resourceSvc.Download(c.Request.Context(), id)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, result)
}

// ServeFile 凭下载令牌读取本地存储的文件
// GET {storage.public_url}/*key?token=
func (h *ResourceHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	path, err := h.resourceSvc.LocalFile(c.Request.Context(), key, c.Query("token"))
	if err != nil {
		h.handleResourceError(c, err)
		return
	}
	c.File(path)
}

// Delete 删除资源及其存储对象
// DELETE /api/v1/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	session, ok := MustGetSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.resourceSvc.Delete(c.Request.Context(), id, session.UserID); err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ResourceHandler) handleResourceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		response.NotFound(c, 17001, "资源不存在")
	case errors.Is(err, service.ErrResourceAlreadyReviewed):
		response.Conflict(c, 17002, "资源已审核，不能重复审核")
	case errors.Is(err, service.ErrResourceNotApproved):
		response.Forbidden(c, 17003, "资源未通过审核，暂不可下载")
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		response.BadRequest(c, 17004, "不支持的文件类型")
	case errors.Is(err, service.ErrDownloadLinkInvalid):
		response.Forbidden(c, 17007, "下载链接无效或已过期")
	case errors.Is(err, service.ErrContentCheckFailed):
		response.BadGateway(c, 17008, "内容检查服务调用失败")
	case errors.Is(err, service.ErrContentCheckUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 17009, "内容检查服务未配置")
	case errors.Is(err, service.ErrInvalidReviewStatus):
		response.BadRequest(c, 17005, "审核结果只能是 approved 或 rejected")
	case middleware.IsBodyTooLarge(err):
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
	default:
		response.InternalError(c)
	}
}

// hideUnapprovedURL 未通过审核的资源只对管理员、教师和上传者给出地址
func hideUnapprovedURL(r *model.Resource, session *service.Session) {
	if r == nil || r.Status == model.ResourceApproved || session.IsStaff() {
		return
	}
	if r.UploaderID != nil && *r.UploaderID == session.UserID {
		return
	}
	r.URL = ""
}
