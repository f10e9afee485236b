package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"gorm.io/gorm"
)

// GormReadingStore implements ReadingStore over gorm.
type GormReadingStore struct {
	db *gorm.DB
}

var _ ReadingStore = (*GormReadingStore)(nil)

func NewReadingStore(db *gorm.DB) *GormReadingStore {
	return &GormReadingStore{db: db}
}

func (s *GormReadingStore) CreateReading(ctx context.Context, r *models.GlucoseReading) error {
	r.Timestamp = r.Timestamp.UTC()
	return s.db.WithContext(ctx).Create(r).Error
}

// CreateReadings writes all readings in a single transaction.
func (s *GormReadingStore) CreateReadings(ctx context.Context, rs []models.GlucoseReading) error {
	if len(rs) == 0 {
		return nil
	}
	for i := range rs {
		rs[i].Timestamp = rs[i].Timestamp.UTC()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rs).Error
	})
}

func (s *GormReadingStore) ListReadings(ctx context.Context, userID uuid.UUID, q ReadingQuery) ([]models.GlucoseReading, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if q.From != nil {
		query = query.Where("timestamp >= ?", q.From.UTC())
	}
	if q.To != nil {
		query = query.Where("timestamp <= ?", q.To.UTC())
	}
	if q.Ascending {
		query = query.Order("timestamp ASC")
	} else {
		query = query.Order("timestamp DESC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var readings []models.GlucoseReading
	if err := query.Find(&readings).Error; err != nil {
		return nil, err
	}
	return normalizeReadings(readings), nil
}

// LatestReading returns nil, nil when the user has no readings.
func (s *GormReadingStore) LatestReading(ctx context.Context, userID uuid.UUID) (*models.GlucoseReading, error) {
	var r models.GlucoseReading
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Timestamp = r.Timestamp.UTC()
	return &r, nil
}

// RecentWindow returns the size most recent readings, oldest first.
func (s *GormReadingStore) RecentWindow(ctx context.Context, userID uuid.UUID, size int) ([]models.GlucoseReading, error) {
	readings, err := s.ListReadings(ctx, userID, ReadingQuery{Limit: size})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}

// CreatePredictions writes all forecast points in one statement.
func (s *GormReadingStore) CreatePredictions(ctx context.Context, ps []models.PredictedGlucose) error {
	if len(ps) == 0 {
		return nil
	}
	for i := range ps {
		ps[i].PredictedFor = ps[i].PredictedFor.UTC()
	}
	return s.db.WithContext(ctx).Create(&ps).Error
}

func (s *GormReadingStore) ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]models.PredictedGlucose, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("predicted_for DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var ps []models.PredictedGlucose
	if err := query.Find(&ps).Error; err != nil {
		return nil, err
	}
	for i := range ps {
		ps[i].PredictedFor = ps[i].PredictedFor.UTC()
	}
	return ps, nil
}

// LatestPrediction returns nil, nil when no forecast exists for the user.
func (s *GormReadingStore) LatestPrediction(ctx context.Context, userID uuid.UUID) (*models.PredictedGlucose, error) {
	var p models.PredictedGlucose
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("predicted_for DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.PredictedFor = p.PredictedFor.UTC()
	return &p, nil
}

func normalizeReadings(rs []models.GlucoseReading) []models.GlucoseReading {
	for i := range rs {
		rs[i].Timestamp = rs[i].Timestamp.UTC()
	}
	return rs
}
