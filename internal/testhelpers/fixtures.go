package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with the given allergens.
func CreateTestUser(t *testing.T, db *gorm.DB, allergens ...string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hashedpassword",
	}
	for _, a := range allergens {
		user.Allergens = append(user.Allergens, models.Allergen{Name: a})
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateReadings inserts one reading per value, a minute apart, ending at end.
func CreateReadings(t *testing.T, db *gorm.DB, userID uuid.UUID, end time.Time, values ...float64) []models.GlucoseReading {
	t.Helper()
	readings := make([]models.GlucoseReading, len(values))
	start := end.Add(-time.Duration(len(values)-1) * time.Minute)
	for i, v := range values {
		readings[i] = models.GlucoseReading{
			UserID:    userID,
			Value:     v,
			Timestamp: start.Add(time.Duration(i) * time.Minute).UTC(),
		}
	}
	if len(readings) > 0 {
		if err := db.Create(&readings).Error; err != nil {
			t.Fatalf("failed to create readings: %v", err)
		}
	}
	return readings
}

// CreateFood inserts a catalog entry.
func CreateFood(t *testing.T, db *gorm.DB, name, mealType string, gi float64, allergens ...string) *models.Food {
	t.Helper()
	food := &models.Food{
		Name:          name,
		MealType:      mealType,
		GlycemicIndex: gi,
	}
	for _, a := range allergens {
		food.Allergens = append(food.Allergens, models.FoodAllergen{Name: a})
	}
	if err := db.Create(food).Error; err != nil {
		t.Fatalf("failed to create food: %v", err)
	}
	return food
}
