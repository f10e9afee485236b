package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/types"
)

// Forecaster produces predicted glucose values from a chronological window.
type Forecaster interface {
	Forecast(ctx context.Context, userID uuid.UUID, values []float64) ([]ForecastPoint, error)
}

// PredictionTrigger schedules a prediction run. Enqueue must not block.
type PredictionTrigger interface {
	Enqueue(userID uuid.UUID)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Signup(ctx context.Context, req *types.SignupRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IUserService defines the interface for profile operations
type IUserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// IDeviceService defines the interface for device key operations
type IDeviceService interface {
	Resolve(ctx context.Context, apiKey string) (uuid.UUID, bool, error)
	IssueKeyFor(ctx context.Context, userID uuid.UUID) (string, error)
}

// IGlucoseService defines the interface for reading ingestion and retrieval
type IGlucoseService interface {
	SubmitReading(ctx context.Context, userID uuid.UUID, value float64, ts *time.Time) (*models.GlucoseReading, error)
	SubmitBulk(ctx context.Context, userID uuid.UUID, inputs []ReadingInput) ([]models.GlucoseReading, error)
	ListReadings(ctx context.Context, userID uuid.UUID, q store.ReadingQuery) ([]models.GlucoseReading, error)
	LatestReading(ctx context.Context, userID uuid.UUID) (*models.GlucoseReading, error)
}

// IPredictionService defines the interface for prediction retrieval
type IPredictionService interface {
	ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]models.PredictedGlucose, error)
}

// IRecommendationService defines the interface for food recommendations
type IRecommendationService interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID) (*RecommendationResult, error)
}

// IFoodService defines the interface for catalog operations
type IFoodService interface {
	CreateFood(ctx context.Context, req *types.CreateFoodRequest) (*models.Food, error)
	GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error)
	SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.Food, error)
	AttachImage(ctx context.Context, id uuid.UUID, uploader ImageUploader, filename string, data []byte) (string, error)
}

// ImageUploader stores image bytes under key and returns the reference to
// persist.
type ImageUploader interface {
	UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
