package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

var _ service.IAuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Signup(ctx context.Context, req *types.SignupRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) GenerateToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockGlucoseService is a mock implementation of service.IGlucoseService
type MockGlucoseService struct {
	mock.Mock
}

var _ service.IGlucoseService = (*MockGlucoseService)(nil)

func (m *MockGlucoseService) SubmitReading(ctx context.Context, userID uuid.UUID, value float64, ts *time.Time) (*models.GlucoseReading, error) {
	args := m.Called(ctx, userID, value, ts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlucoseReading), args.Error(1)
}

func (m *MockGlucoseService) SubmitBulk(ctx context.Context, userID uuid.UUID, inputs []service.ReadingInput) ([]models.GlucoseReading, error) {
	args := m.Called(ctx, userID, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GlucoseReading), args.Error(1)
}

func (m *MockGlucoseService) ListReadings(ctx context.Context, userID uuid.UUID, q store.ReadingQuery) ([]models.GlucoseReading, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GlucoseReading), args.Error(1)
}

func (m *MockGlucoseService) LatestReading(ctx context.Context, userID uuid.UUID) (*models.GlucoseReading, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlucoseReading), args.Error(1)
}

// MockRecommendationService is a mock implementation of service.IRecommendationService
type MockRecommendationService struct {
	mock.Mock
}

var _ service.IRecommendationService = (*MockRecommendationService)(nil)

func (m *MockRecommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID) (*service.RecommendationResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecommendationResult), args.Error(1)
}

// MockDeviceService is a mock implementation of service.IDeviceService
type MockDeviceService struct {
	mock.Mock
}

var _ service.IDeviceService = (*MockDeviceService)(nil)

func (m *MockDeviceService) Resolve(ctx context.Context, apiKey string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, apiKey)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockDeviceService) IssueKeyFor(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockFoodService is a mock implementation of service.IFoodService
type MockFoodService struct {
	mock.Mock
}

var _ service.IFoodService = (*MockFoodService)(nil)

func (m *MockFoodService) CreateFood(ctx context.Context, req *types.CreateFoodRequest) (*models.Food, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

func (m *MockFoodService) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

func (m *MockFoodService) SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.Food, error) {
	args := m.Called(ctx, query, mealType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Food), args.Error(1)
}

func (m *MockFoodService) AttachImage(ctx context.Context, id uuid.UUID, uploader service.ImageUploader, filename string, data []byte) (string, error) {
	args := m.Called(ctx, id, uploader, filename, data)
	return args.String(0), args.Error(1)
}
