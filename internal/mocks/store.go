package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockReadingStore is a mock implementation of store.ReadingStore
type MockReadingStore struct {
	mock.Mock
}

var _ store.ReadingStore = (*MockReadingStore)(nil)

func (m *MockReadingStore) CreateReading(ctx context.Context, r *models.GlucoseReading) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReadingStore) CreateReadings(ctx context.Context, rs []models.GlucoseReading) error {
	return m.Called(ctx, rs).Error(0)
}

func (m *MockReadingStore) ListReadings(ctx context.Context, userID uuid.UUID, q store.ReadingQuery) ([]models.GlucoseReading, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GlucoseReading), args.Error(1)
}

func (m *MockReadingStore) LatestReading(ctx context.Context, userID uuid.UUID) (*models.GlucoseReading, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlucoseReading), args.Error(1)
}

func (m *MockReadingStore) RecentWindow(ctx context.Context, userID uuid.UUID, size int) ([]models.GlucoseReading, error) {
	args := m.Called(ctx, userID, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GlucoseReading), args.Error(1)
}

func (m *MockReadingStore) CreatePredictions(ctx context.Context, ps []models.PredictedGlucose) error {
	return m.Called(ctx, ps).Error(0)
}

func (m *MockReadingStore) ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]models.PredictedGlucose, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PredictedGlucose), args.Error(1)
}

func (m *MockReadingStore) LatestPrediction(ctx context.Context, userID uuid.UUID) (*models.PredictedGlucose, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PredictedGlucose), args.Error(1)
}

// MockFoodStore is a mock implementation of store.FoodStore
type MockFoodStore struct {
	mock.Mock
}

var _ store.FoodStore = (*MockFoodStore)(nil)

func (m *MockFoodStore) FindFoods(ctx context.Context, f store.FoodFilter) ([]models.Food, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Food), args.Error(1)
}

func (m *MockFoodStore) CreateFood(ctx context.Context, food *models.Food) error {
	return m.Called(ctx, food).Error(0)
}

func (m *MockFoodStore) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

func (m *MockFoodStore) SearchFoods(ctx context.Context, query, mealType string, limit int) ([]models.Food, error) {
	args := m.Called(ctx, query, mealType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Food), args.Error(1)
}

func (m *MockFoodStore) SetFoodImage(ctx context.Context, id uuid.UUID, ref string) error {
	return m.Called(ctx, id, ref).Error(0)
}

// MockDeviceKeyStore is a mock implementation of store.DeviceKeyStore
type MockDeviceKeyStore struct {
	mock.Mock
}

var _ store.DeviceKeyStore = (*MockDeviceKeyStore)(nil)

func (m *MockDeviceKeyStore) CreateDeviceKey(ctx context.Context, k *models.DeviceAPIKey) error {
	return m.Called(ctx, k).Error(0)
}

func (m *MockDeviceKeyStore) FindDeviceKeyByHash(ctx context.Context, hash string) (*models.DeviceAPIKey, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeviceAPIKey), args.Error(1)
}

func (m *MockDeviceKeyStore) TouchDeviceKey(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// MockUserStore is a mock implementation of store.UserStore
type MockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UpdateUser(ctx context.Context, u *models.User, allergens []string) error {
	return m.Called(ctx, u, allergens).Error(0)
}

func (m *MockUserStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
