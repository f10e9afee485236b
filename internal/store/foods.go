package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"gorm.io/gorm"
)

// GormFoodStore implements FoodStore over gorm.
type GormFoodStore struct {
	db *gorm.DB
}

var _ FoodStore = (*GormFoodStore)(nil)

func NewFoodStore(db *gorm.DB) *GormFoodStore {
	return &GormFoodStore{db: db}
}

// FindFoods returns foods of one meal type inside the GI band that carry none
// of the excluded allergens, ordered by GI then name.
func (s *GormFoodStore) FindFoods(ctx context.Context, f FoodFilter) ([]models.Food, error) {
	query := s.db.WithContext(ctx).
		Preload("Allergens").
		Where("glycemic_index >= ? AND glycemic_index <= ?", f.GIMin, f.GIMax)
	if f.MealType != "" {
		query = query.Where("meal_type = ?", f.MealType)
	}
	if len(f.ExcludeAllergens) > 0 {
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM food_allergens fa WHERE fa.food_id = foods.id AND fa.name IN ?)",
			f.ExcludeAllergens,
		)
	}
	query = query.Order("glycemic_index ASC").Order("name ASC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var foods []models.Food
	if err := query.Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

func (s *GormFoodStore) CreateFood(ctx context.Context, food *models.Food) error {
	return s.db.WithContext(ctx).Create(food).Error
}

func (s *GormFoodStore) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).Preload("Allergens").First(&food, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// SearchFoods matches names containing query. On postgres the matches are
// ranked by embedding distance, elsewhere by name.
func (s *GormFoodStore) SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.Food, error) {
	q := s.db.WithContext(ctx).Preload("Allergens")
	if query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if mealType != "" {
		q = q.Where("meal_type = ?", mealType)
	}
	if s.db.Dialector.Name() == "postgres" && query != "" {
		ranked := s.db.Model(&models.Food{}).
			Select("id, embedding <-> ? AS distance", models.TextEmbedding(query))
		q = q.Joins("JOIN (?) AS search ON foods.id = search.id", ranked).
			Order("search.distance ASC")
	}
	q = q.Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var foods []models.Food
	if err := q.Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// SetFoodImage replaces the image reference. A missing food is
// gorm.ErrRecordNotFound.
func (s *GormFoodStore) SetFoodImage(ctx context.Context, id uuid.UUID, ref string) error {
	res := s.db.WithContext(ctx).Model(&models.Food{}).Where("id = ?", id).Update("image_ref", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
