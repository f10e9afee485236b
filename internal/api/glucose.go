package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/types"
)

// GlucoseHandler serves reading ingestion and retrieval. The same submit
// handlers back both the session and the device routes; only the
// authentication middleware in front of them differs.
type GlucoseHandler struct {
	glucoseService service.IGlucoseService
}

func NewGlucoseHandler(glucoseService service.IGlucoseService) *GlucoseHandler {
	return &GlucoseHandler{glucoseService: glucoseService}
}

// RegisterRoutes expects router to be session-authenticated.
func (h *GlucoseHandler) RegisterRoutes(router *gin.RouterGroup) {
	glucose := router.Group("/glucose")
	{
		glucose.POST("", h.SubmitReading)
		glucose.POST("/bulk", h.SubmitBulk)
		glucose.GET("", h.ListReadings)
		glucose.GET("/latest", h.LatestReading)
	}
}

// RegisterDeviceRoutes mounts the submit handlers behind device middleware.
func (h *GlucoseHandler) RegisterDeviceRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	device := router.Group("/device/glucose", mw...)
	{
		device.POST("", h.SubmitReading)
		device.POST("/bulk", h.SubmitBulk)
	}
}

func (h *GlucoseHandler) SubmitReading(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req types.ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	reading, err := h.glucoseService.SubmitReading(c.Request.Context(), userID, *req.Value, readingTime(req.Timestamp))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reading)
}

func (h *GlucoseHandler) SubmitBulk(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req types.BulkReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	inputs := make([]service.ReadingInput, len(req.Readings))
	for i, r := range req.Readings {
		if r.Value == nil {
			badRequest(c, fmt.Sprintf("readings[%d]: value is required", i))
			return
		}
		inputs[i] = service.ReadingInput{Value: *r.Value, Timestamp: readingTime(r.Timestamp)}
	}

	readings, err := h.glucoseService.SubmitBulk(c.Request.Context(), userID, inputs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

func (h *GlucoseHandler) ListReadings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var q store.ReadingQuery
	var err error
	if q.Limit, err = intQuery(c, "limit"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if q.From, err = timeQuery(c, "from"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if q.To, err = timeQuery(c, "to"); err != nil {
		badRequest(c, err.Error())
		return
	}

	readings, err := h.glucoseService.ListReadings(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"readings": readings})
}

func (h *GlucoseHandler) LatestReading(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	reading, err := h.glucoseService.LatestReading(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

func readingTime(ft *types.FlexibleTime) *time.Time {
	if ft == nil || ft.IsZero() {
		return nil
	}
	t := ft.Time
	return &t
}

// intQuery reads an optional integer parameter; absent means zero.
func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := types.ParseFlexibleTime(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return &t, nil
}
