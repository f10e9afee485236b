package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/types"
)

// DeviceHandler issues device API keys to signed-in users.
type DeviceHandler struct {
	deviceService service.IDeviceService
}

func NewDeviceHandler(deviceService service.IDeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

// RegisterRoutes expects router to be session-authenticated.
func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/devices/keys", h.IssueKey)
}

func (h *DeviceHandler) IssueKey(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	key, err := h.deviceService.IssueKeyFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	prefix := key
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	c.JSON(http.StatusCreated, types.DeviceKeyResponse{APIKey: key, Prefix: prefix})
}
