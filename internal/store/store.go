// Package store persists users, readings, predictions, device keys and the
// food catalog through gorm.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
)

// ReadingQuery bounds a reading listing. Zero From/To are open; a Limit of
// zero means no limit.
type ReadingQuery struct {
	From      *time.Time
	To        *time.Time
	Limit     int
	Ascending bool
}

// FoodFilter selects catalog entries for recommendations.
type FoodFilter struct {
	GIMin            float64
	GIMax            float64
	MealType         string
	ExcludeAllergens []string
	Limit            int
}

// ReadingStore holds glucose readings and forecast points.
type ReadingStore interface {
	CreateReading(ctx context.Context, r *models.GlucoseReading) error
	CreateReadings(ctx context.Context, rs []models.GlucoseReading) error
	ListReadings(ctx context.Context, userID uuid.UUID, q ReadingQuery) ([]models.GlucoseReading, error)
	LatestReading(ctx context.Context, userID uuid.UUID) (*models.GlucoseReading, error)
	RecentWindow(ctx context.Context, userID uuid.UUID, size int) ([]models.GlucoseReading, error)
	CreatePredictions(ctx context.Context, ps []models.PredictedGlucose) error
	ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]models.PredictedGlucose, error)
	LatestPrediction(ctx context.Context, userID uuid.UUID) (*models.PredictedGlucose, error)
}

// UserStore holds accounts and their allergen sets.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User, allergens []string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// DeviceKeyStore holds hashed device credentials.
type DeviceKeyStore interface {
	CreateDeviceKey(ctx context.Context, k *models.DeviceAPIKey) error
	FindDeviceKeyByHash(ctx context.Context, hash string) (*models.DeviceAPIKey, error)
	TouchDeviceKey(ctx context.Context, id uuid.UUID, at time.Time) error
}

// FoodStore holds the food catalog.
type FoodStore interface {
	FindFoods(ctx context.Context, f FoodFilter) ([]models.Food, error)
	CreateFood(ctx context.Context, food *models.Food) error
	GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error)
	SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.Food, error)
	SetFoodImage(ctx context.Context, id uuid.UUID, ref string) error
}
