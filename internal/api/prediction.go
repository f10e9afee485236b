package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/service"
)

type PredictionHandler struct {
	predictionService service.IPredictionService
}

func NewPredictionHandler(predictionService service.IPredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// RegisterRoutes expects router to be session-authenticated.
func (h *PredictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/predictions", h.ListPredictions)
}

func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	limit, err := intQuery(c, "limit")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	predictions, err := h.predictionService.ListPredictions(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}
