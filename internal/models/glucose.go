package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlucoseReading is one timestamped measurement. Rows are never updated.
type GlucoseReading struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_reading_user_ts,priority:1" json:"user_id"`
	Value     float64   `gorm:"not null" json:"value"`
	Timestamp time.Time `gorm:"not null;index:idx_reading_user_ts,priority:2" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

func (GlucoseReading) TableName() string {
	return "glucose_readings"
}

func (r *GlucoseReading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PredictedGlucose is one forecast point produced by the forecasting service.
type PredictedGlucose struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;index:idx_prediction_user_for,priority:1" json:"user_id"`
	Value        float64   `gorm:"not null" json:"value"`
	PredictedFor time.Time `gorm:"not null;index:idx_prediction_user_for,priority:2" json:"predicted_for"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PredictedGlucose) TableName() string {
	return "predicted_glucose"
}

func (p *PredictedGlucose) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
