package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Meal types, in the order recommendations are assembled.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealTypes lists every valid meal type in recommendation order.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

// IsMealType reports whether s is a known meal type.
func IsMealType(s string) bool {
	for _, m := range MealTypes {
		if m == s {
			return true
		}
	}
	return false
}

// Food is a read-mostly catalog entry.
type Food struct {
	ID            uuid.UUID                   `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	Name          string                      `gorm:"size:255;not null" json:"name"`
	GlycemicIndex float64                     `gorm:"not null;index" json:"glycemic_index"`
	MealType      string                      `gorm:"size:16;not null;index" json:"meal_type"`
	ImageRef      string                      `gorm:"size:512" json:"image_ref"`
	RecipeRef     string                      `gorm:"size:512" json:"recipe_ref"`
	Calories      float64                     `json:"calories"`
	Protein       float64                     `json:"protein"`
	Fat           float64                     `json:"fat"`
	Sugar         float64                     `json:"sugar"`
	Allergens     []FoodAllergen              `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE" json:"allergens"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Embedding     pgvector.Vector             `gorm:"type:vector(3)" json:"-"`
}

func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the search embedding in step with the name.
func (f *Food) BeforeSave(tx *gorm.DB) error {
	f.Embedding = TextEmbedding(f.Name)
	return nil
}

// AllergenNames returns the food's allergen set as plain strings.
func (f *Food) AllergenNames() []string {
	names := make([]string, 0, len(f.Allergens))
	for _, a := range f.Allergens {
		names = append(names, a.Name)
	}
	return names
}

// FoodAllergen is one allergen tag on a food. Names are stored lower-cased.
type FoodAllergen struct {
	ID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"-"`
	FoodID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"-"`
	Name   string    `gorm:"size:50;not null;index" json:"name"`
}

func (FoodAllergen) TableName() string {
	return "food_allergens"
}

func (a *FoodAllergen) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Name = strings.ToLower(strings.TrimSpace(a.Name))
	return nil
}

// TextEmbedding returns a small deterministic embedding for catalog search:
// total length, vowel count and consonant count of the lower-cased text.
func TextEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, consonants})
}
