package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/types"
)

type RecommendationHandler struct {
	recommendationService service.IRecommendationService
	foodPresenter
}

// NewRecommendationHandler builds the handler. images may be nil.
func NewRecommendationHandler(recommendationService service.IRecommendationService, images ImageResolver, log zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		foodPresenter:         foodPresenter{images: images, log: log},
	}
}

// RegisterRoutes expects router to be session-authenticated.
func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recommendations", h.GetRecommendations)
}

func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	result, err := h.recommendationService.GetRecommendations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.RecommendationResponse{
		Trend:           string(result.Trend),
		Band:            types.BandResponse{Min: result.Band.Min, Max: result.Band.Max},
		Recommendations: h.present(c.Request.Context(), result.Recommendations),
	})
}
