package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/types"
)

// ImageResolver turns a stored image reference into a URL a client can fetch.
type ImageResolver interface {
	ImageURL(ctx context.Context, ref string) (string, error)
}

// foodPresenter shapes foods for output, resolving image references when
// object storage is configured.
type foodPresenter struct {
	images ImageResolver
	log    zerolog.Logger
}

func (p foodPresenter) present(ctx context.Context, foods []models.Food) []types.FoodResponse {
	out := make([]types.FoodResponse, len(foods))
	for i, f := range foods {
		out[i] = types.NewFoodResponse(f, p.imageURL(ctx, f.ImageRef))
	}
	return out
}

func (p foodPresenter) imageURL(ctx context.Context, ref string) string {
	if p.images == nil || ref == "" {
		return ""
	}
	url, err := p.images.ImageURL(ctx, ref)
	if err != nil {
		p.log.Warn().Err(err).Str("image_ref", ref).Msg("failed to presign food image")
		return ""
	}
	return url
}

// FoodHandler serves the food catalog.
type FoodHandler struct {
	foodService service.IFoodService
	foodPresenter
}

// NewFoodHandler builds the handler. images may be nil.
func NewFoodHandler(foodService service.IFoodService, images ImageResolver, log zerolog.Logger) *FoodHandler {
	return &FoodHandler{
		foodService:   foodService,
		foodPresenter: foodPresenter{images: images, log: log},
	}
}

// RegisterRoutes expects router to be session-authenticated.
func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("", h.SearchFoods)
		foods.GET("/:id", h.GetFood)
		foods.POST("", h.CreateFood)
	}
}

func (h *FoodHandler) SearchFoods(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	foods, err := h.foodService.SearchFoods(c.Request.Context(), c.Query("q"), c.Query("meal_type"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": h.present(c.Request.Context(), foods)})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid food id")
		return
	}

	food, err := h.foodService.GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(c.Request.Context(), []models.Food{*food})[0])
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	var req types.CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	food, err := h.foodService.CreateFood(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.present(c.Request.Context(), []models.Food{*food})[0])
}
