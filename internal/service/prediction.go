package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/rs/zerolog"
)

const (
	DefaultWindowSize      = 30
	DefaultMinHistory      = 5
	DefaultPredictionLimit = 10
	MaxPredictionListLimit = 1000
)

// PredictionService feeds recent readings to the forecaster and stores what
// comes back.
type PredictionService struct {
	readings   store.ReadingStore
	users      store.UserStore
	forecaster Forecaster
	windowSize int
	minHistory int
	log        zerolog.Logger
}

var (
	_ IPredictionService = (*PredictionService)(nil)
	_ PredictionRunner   = (*PredictionService)(nil)
)

func NewPredictionService(readings store.ReadingStore, users store.UserStore, forecaster Forecaster, windowSize, minHistory int, log zerolog.Logger) *PredictionService {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if minHistory <= 0 {
		minHistory = DefaultMinHistory
	}
	return &PredictionService{
		readings:   readings,
		users:      users,
		forecaster: forecaster,
		windowSize: windowSize,
		minHistory: minHistory,
		log:        log.With().Str("component", "prediction").Logger(),
	}
}

// OnNewReading runs one prediction for the user. Failures are logged and
// never returned; a short history is a silent no-op.
func (s *PredictionService) OnNewReading(ctx context.Context, userID uuid.UUID) {
	log := s.log.With().Str("user_id", userID.String()).Logger()

	window, err := s.readings.RecentWindow(ctx, userID, s.windowSize)
	if err != nil {
		forecastOutcomes.WithLabelValues(outcomeFailed).Inc()
		log.Error().Err(err).Msg("failed to load reading window")
		return
	}

	values := make([]float64, 0, len(window))
	for _, r := range window {
		if ValidReadingValue(r.Value) {
			values = append(values, r.Value)
		}
	}
	if len(values) < s.minHistory {
		forecastOutcomes.WithLabelValues(outcomeSkipped).Inc()
		log.Debug().Int("history", len(values)).Int("required", s.minHistory).Msg("not enough history for a forecast")
		return
	}

	points, err := s.forecaster.Forecast(ctx, userID, values)
	if err != nil {
		forecastOutcomes.WithLabelValues(outcomeFailed).Inc()
		event := log.Error().Err(err).Floats64("window", values)
		var fe *ForecastError
		if errors.As(err, &fe) {
			event = event.Int("status_code", fe.StatusCode).Str("response_body", fe.Body)
		}
		event.Msg("forecast request failed")
		return
	}
	if len(points) == 0 {
		forecastOutcomes.WithLabelValues(outcomeEmpty).Inc()
		log.Warn().Floats64("window", values).Msg("forecast response had no usable predictions")
		return
	}

	rows := make([]models.PredictedGlucose, len(points))
	for i, p := range points {
		rows[i] = models.PredictedGlucose{
			UserID:       userID,
			Value:        p.Value,
			PredictedFor: p.PredictedFor,
		}
	}
	if err := s.readings.CreatePredictions(ctx, rows); err != nil {
		forecastOutcomes.WithLabelValues(outcomeFailed).Inc()
		log.Error().Err(err).Int("points", len(rows)).Msg("failed to store predictions")
		return
	}

	forecastOutcomes.WithLabelValues(outcomeStored).Inc()
	log.Info().Int("points", len(rows)).Msg("predictions stored")
}

// ListPredictions returns the user's forecast points, latest target first.
func (s *PredictionService) ListPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]models.PredictedGlucose, error) {
	if limit == 0 {
		limit = DefaultPredictionLimit
	}
	if limit < 0 || limit > MaxPredictionListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrBadRequest, MaxPredictionListLimit)
	}
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %v", ErrInternal, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	ps, err := s.readings.ListPredictions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list predictions: %v", ErrInternal, err)
	}
	return ps, nil
}
