package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record. The glucose pipeline only reads ID and Allergens.
type User struct {
	ID                uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Name              string     `gorm:"not null" json:"name"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"not null" json:"-"`
	Age               *int       `json:"age,omitempty"`
	Sex               string     `gorm:"size:16" json:"sex"`
	Pregnancy         bool       `json:"pregnancy"`
	Height            *float64   `json:"height,omitempty"`
	Weight            *float64   `json:"weight,omitempty"`
	Contact           string     `gorm:"size:32" json:"contact,omitempty"`
	BloodType         string     `gorm:"size:8" json:"blood_type,omitempty"`
	MedicalConditions string     `gorm:"type:text" json:"medical_conditions,omitempty"`
	Medications       string     `gorm:"type:text" json:"medications,omitempty"`
	Allergens         []Allergen `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AllergenNames returns the user's allergen set as plain strings.
func (u *User) AllergenNames() []string {
	names := make([]string, 0, len(u.Allergens))
	for _, a := range u.Allergens {
		names = append(names, a.Name)
	}
	return names
}

// Allergen is one entry of a user's allergen set.
type Allergen struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_allergen" json:"user_id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_user_allergen" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Allergen) TableName() string {
	return "user_allergens"
}

func (a *Allergen) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
