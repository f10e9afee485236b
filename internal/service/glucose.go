package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/rs/zerolog"
)

const (
	MinReadingValue = 0
	MaxReadingValue = 1000

	DefaultReadingLimit = 10
	MaxReadingLimit     = 1000
	MaxBulkReadings     = 1000
)

// ReadingInput is one measurement as submitted. A nil Timestamp means now.
type ReadingInput struct {
	Value     float64
	Timestamp *time.Time
}

// GlucoseService is the ingestion gateway for glucose readings.
type GlucoseService struct {
	readings store.ReadingStore
	users    store.UserStore
	trigger  PredictionTrigger
	log      zerolog.Logger
	now      func() time.Time
}

var _ IGlucoseService = (*GlucoseService)(nil)

func NewGlucoseService(readings store.ReadingStore, users store.UserStore, trigger PredictionTrigger, log zerolog.Logger) *GlucoseService {
	return &GlucoseService{
		readings: readings,
		users:    users,
		trigger:  trigger,
		log:      log.With().Str("component", "ingestion").Logger(),
		now:      time.Now,
	}
}

// ValidReadingValue reports whether v is a storable glucose value.
func ValidReadingValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= MinReadingValue && v <= MaxReadingValue
}

func (s *GlucoseService) SubmitReading(ctx context.Context, userID uuid.UUID, value float64, ts *time.Time) (*models.GlucoseReading, error) {
	if !ValidReadingValue(value) {
		return nil, fmt.Errorf("%w: value must be a number between %d and %d", ErrBadRequest, MinReadingValue, MaxReadingValue)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	reading := &models.GlucoseReading{
		UserID:    userID,
		Value:     value,
		Timestamp: s.timestamp(ts),
	}
	if err := s.readings.CreateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("%w: store reading: %v", ErrInternal, err)
	}
	readingsIngested.Inc()

	s.trigger.Enqueue(userID)
	return reading, nil
}

// SubmitBulk stores every reading or none. One prediction task follows a
// successful write.
func (s *GlucoseService) SubmitBulk(ctx context.Context, userID uuid.UUID, inputs []ReadingInput) ([]models.GlucoseReading, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: readings must not be empty", ErrBadRequest)
	}
	if len(inputs) > MaxBulkReadings {
		return nil, fmt.Errorf("%w: at most %d readings per request", ErrBadRequest, MaxBulkReadings)
	}
	for i, in := range inputs {
		if !ValidReadingValue(in.Value) {
			return nil, fmt.Errorf("%w: readings[%d]: value must be a number between %d and %d",
				ErrBadRequest, i, MinReadingValue, MaxReadingValue)
		}
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	readings := make([]models.GlucoseReading, len(inputs))
	for i, in := range inputs {
		readings[i] = models.GlucoseReading{
			UserID:    userID,
			Value:     in.Value,
			Timestamp: s.timestamp(in.Timestamp),
		}
	}
	if err := s.readings.CreateReadings(ctx, readings); err != nil {
		return nil, fmt.Errorf("%w: store readings: %v", ErrInternal, err)
	}
	readingsIngested.Add(float64(len(readings)))

	s.trigger.Enqueue(userID)
	return readings, nil
}

// ListReadings returns readings newest first. A zero limit means the default.
func (s *GlucoseService) ListReadings(ctx context.Context, userID uuid.UUID, q store.ReadingQuery) ([]models.GlucoseReading, error) {
	if q.Limit == 0 {
		q.Limit = DefaultReadingLimit
	}
	if q.Limit < 0 || q.Limit > MaxReadingLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrBadRequest, MaxReadingLimit)
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrBadRequest)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	readings, err := s.readings.ListReadings(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list readings: %v", ErrInternal, err)
	}
	return readings, nil
}

func (s *GlucoseService) LatestReading(ctx context.Context, userID uuid.UUID) (*models.GlucoseReading, error) {
	reading, err := s.readings.LatestReading(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: latest reading: %v", ErrInternal, err)
	}
	if reading == nil {
		return nil, fmt.Errorf("%w: no glucose readings found", ErrNotFound)
	}
	return reading, nil
}

func (s *GlucoseService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: user lookup: %v", ErrInternal, err)
	}
	if !exists {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return nil
}

func (s *GlucoseService) timestamp(ts *time.Time) time.Time {
	if ts == nil || ts.IsZero() {
		return s.now().UTC()
	}
	return ts.UTC()
}
