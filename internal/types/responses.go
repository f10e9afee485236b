package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
)

// Nutrition groups a food's macro values.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Sugar    float64 `json:"sugar"`
}

// FoodResponse is the client view of a catalog entry.
type FoodResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	GlycemicIndex float64   `json:"glycemic_index"`
	MealType      string    `json:"meal_type"`
	ImageURL      string    `json:"image_url"`
	RecipeRef     string    `json:"recipe_ref"`
	Nutrition     Nutrition `json:"nutrition"`
	Allergens     []string  `json:"allergens"`
	Tags          []string  `json:"tags"`
}

// NewFoodResponse shapes a food for output. imageURL replaces the stored
// reference when non-empty.
func NewFoodResponse(f models.Food, imageURL string) FoodResponse {
	if imageURL == "" {
		imageURL = f.ImageRef
	}
	tags := []string(f.Tags)
	if tags == nil {
		tags = []string{}
	}
	return FoodResponse{
		ID:            f.ID,
		Name:          f.Name,
		GlycemicIndex: f.GlycemicIndex,
		MealType:      f.MealType,
		ImageURL:      imageURL,
		RecipeRef:     f.RecipeRef,
		Nutrition: Nutrition{
			Calories: f.Calories,
			Protein:  f.Protein,
			Fat:      f.Fat,
			Sugar:    f.Sugar,
		},
		Allergens: f.AllergenNames(),
		Tags:      tags,
	}
}

// BandResponse is the glycemic-index range used for a recommendation.
type BandResponse struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RecommendationResponse is the body of GET /recommendations.
type RecommendationResponse struct {
	Trend           string         `json:"trend"`
	Band            BandResponse   `json:"gi_band"`
	Recommendations []FoodResponse `json:"recommendations"`
}

// UserResponse is the client view of an account.
type UserResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Age               *int      `json:"age,omitempty"`
	Sex               string    `json:"sex,omitempty"`
	Pregnancy         bool      `json:"pregnancy"`
	Height            *float64  `json:"height,omitempty"`
	Weight            *float64  `json:"weight,omitempty"`
	Contact           string    `json:"contact,omitempty"`
	BloodType         string    `json:"blood_type,omitempty"`
	MedicalConditions string    `json:"medical_conditions,omitempty"`
	Medications       string    `json:"medications,omitempty"`
	Allergies         []string  `json:"allergies"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewUserResponse shapes a user for output.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Age:               u.Age,
		Sex:               u.Sex,
		Pregnancy:         u.Pregnancy,
		Height:            u.Height,
		Weight:            u.Weight,
		Contact:           u.Contact,
		BloodType:         u.BloodType,
		MedicalConditions: u.MedicalConditions,
		Medications:       u.Medications,
		Allergies:         u.AllergenNames(),
		CreatedAt:         u.CreatedAt,
	}
}

// DeviceKeyResponse carries a freshly issued device key. The key is not
// retrievable later.
type DeviceKeyResponse struct {
	APIKey string `json:"api_key"`
	Prefix string `json:"prefix"`
}
