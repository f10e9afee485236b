package types

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Name              string       `json:"name" binding:"required"`
	Email             string       `json:"email" binding:"required,email"`
	Password          string       `json:"password" binding:"required,min=8"`
	Age               *int         `json:"age" binding:"omitempty,min=0,max=150"`
	Sex               string       `json:"sex"`
	Pregnancy         bool         `json:"pregnancy"`
	Height            *float64     `json:"height" binding:"omitempty,gt=0"`
	Weight            *float64     `json:"weight" binding:"omitempty,gt=0"`
	Contact           string       `json:"contact"`
	BloodType         string       `json:"blood_type"`
	MedicalConditions string       `json:"medical_conditions"`
	Medications       string       `json:"medications"`
	Allergies         AllergenList `json:"allergies"`
}

// LoginRequest represents the request body for a session login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name              *string       `json:"name"`
	Password          *string       `json:"password" binding:"omitempty,min=8"`
	Age               *int          `json:"age" binding:"omitempty,min=0,max=150"`
	Sex               *string       `json:"sex"`
	Pregnancy         *bool         `json:"pregnancy"`
	Height            *float64      `json:"height" binding:"omitempty,gt=0"`
	Weight            *float64      `json:"weight" binding:"omitempty,gt=0"`
	Contact           *string       `json:"contact"`
	BloodType         *string       `json:"blood_type"`
	MedicalConditions *string       `json:"medical_conditions"`
	Medications       *string       `json:"medications"`
	Allergies         *AllergenList `json:"allergies"`
}

// ReadingRequest is one submitted glucose measurement. APIKey is only read on
// device routes, as a fallback for the X-API-Key header.
type ReadingRequest struct {
	Value     *float64      `json:"value" binding:"required"`
	Timestamp *FlexibleTime `json:"timestamp"`
	APIKey    string        `json:"apiKey,omitempty"`
}

// BulkReadingRequest carries a batch of measurements.
type BulkReadingRequest struct {
	Readings []ReadingRequest `json:"readings" binding:"required"`
	APIKey   string           `json:"apiKey,omitempty"`
}

// CreateFoodRequest represents the request body for adding a catalog entry
type CreateFoodRequest struct {
	Name          string       `json:"name" binding:"required"`
	GlycemicIndex *float64     `json:"glycemic_index" binding:"required"`
	MealType      string       `json:"meal_type" binding:"required"`
	ImageRef      string       `json:"image_ref"`
	RecipeRef     string       `json:"recipe_ref"`
	Nutrition     Nutrition    `json:"nutrition"`
	Allergens     AllergenList `json:"allergens"`
	Tags          []string     `json:"tags"`
}
