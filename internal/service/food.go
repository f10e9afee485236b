package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/types"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultFoodSearchLimit = 20
	MaxFoodSearchLimit     = 100
)

// FoodService manages the food catalog.
type FoodService struct {
	foods store.FoodStore
	log   zerolog.Logger
}

var _ IFoodService = (*FoodService)(nil)

func NewFoodService(foods store.FoodStore, log zerolog.Logger) *FoodService {
	return &FoodService{
		foods: foods,
		log:   log.With().Str("component", "food").Logger(),
	}
}

func (s *FoodService) CreateFood(ctx context.Context, req *types.CreateFoodRequest) (*models.Food, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	mealType := strings.ToLower(strings.TrimSpace(req.MealType))
	if !models.IsMealType(mealType) {
		return nil, fmt.Errorf("%w: meal_type must be one of %s", ErrBadRequest, strings.Join(models.MealTypes, ", "))
	}
	if req.GlycemicIndex == nil || *req.GlycemicIndex < 0 || *req.GlycemicIndex > 100 {
		return nil, fmt.Errorf("%w: glycemic_index must be between 0 and 100", ErrBadRequest)
	}

	food := &models.Food{
		Name:          name,
		GlycemicIndex: *req.GlycemicIndex,
		MealType:      mealType,
		ImageRef:      req.ImageRef,
		RecipeRef:     req.RecipeRef,
		Calories:      req.Nutrition.Calories,
		Protein:       req.Nutrition.Protein,
		Fat:           req.Nutrition.Fat,
		Sugar:         req.Nutrition.Sugar,
		Tags:          datatypes.JSONSlice[string](req.Tags),
	}
	for _, a := range NormalizeAllergens(req.Allergens) {
		food.Allergens = append(food.Allergens, models.FoodAllergen{Name: a})
	}

	if err := s.foods.CreateFood(ctx, food); err != nil {
		return nil, fmt.Errorf("%w: create food: %v", ErrInternal, err)
	}
	s.log.Info().Str("food_id", food.ID.String()).Str("name", food.Name).Msg("food added to catalog")
	return food, nil
}

func (s *FoodService) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	food, err := s.foods.GetFood(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: food %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get food: %v", ErrInternal, err)
	}
	return food, nil
}

func (s *FoodService) SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.Food, error) {
	if limit == 0 {
		limit = DefaultFoodSearchLimit
	}
	if limit < 0 || limit > MaxFoodSearchLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrBadRequest, MaxFoodSearchLimit)
	}
	mealType = strings.ToLower(strings.TrimSpace(mealType))
	if mealType != "" && !models.IsMealType(mealType) {
		return nil, fmt.Errorf("%w: meal_type must be one of %s", ErrBadRequest, strings.Join(models.MealTypes, ", "))
	}
	foods, err := s.foods.SearchFoods(ctx, strings.TrimSpace(query), mealType, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search foods: %v", ErrInternal, err)
	}
	return foods, nil
}

// AttachImage uploads an image for an existing food under
// food-images/<id><ext> and records the returned reference.
func (s *FoodService) AttachImage(ctx context.Context, id uuid.UUID, uploader ImageUploader, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image is empty", ErrBadRequest)
	}
	ext := strings.ToLower(path.Ext(filename))
	contentType := mime.TypeByExtension(ext)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %q is not an image", ErrBadRequest, filename)
	}
	if _, err := s.GetFood(ctx, id); err != nil {
		return "", err
	}

	ref, err := uploader.UploadImage(ctx, "food-images/"+id.String()+ext, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: upload image: %v", ErrInternal, err)
	}
	if err := s.foods.SetFoodImage(ctx, id, ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: food %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("%w: set image: %v", ErrInternal, err)
	}
	s.log.Info().Str("food_id", id.String()).Str("image_ref", ref).Msg("food image attached")
	return ref, nil
}
