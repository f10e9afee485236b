package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Trend is the direction glucose is heading.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
	TrendUnknown Trend = "unknown"
)

// Band is an inclusive glycemic-index range.
type Band struct {
	Min float64
	Max float64
}

// MaxRecommendations caps the assembled list.
const MaxRecommendations = 10

// mealQuotas is the per-meal-type allowance, in assembly order.
var mealQuotas = []struct {
	mealType string
	quota    int
}{
	{models.MealBreakfast, 3},
	{models.MealLunch, 3},
	{models.MealDinner, 3},
	{models.MealSnack, 4},
}

// RecommendationResult is the outcome of one recommendation request.
type RecommendationResult struct {
	Recommendations []models.Food
	Trend           Trend
	Band            Band
}

// RecommendationService picks allergen-safe foods whose glycemic index suits
// the user's glucose trend.
type RecommendationService struct {
	users    store.UserStore
	readings store.ReadingStore
	foods    store.FoodStore
	log      zerolog.Logger
}

var _ IRecommendationService = (*RecommendationService)(nil)

func NewRecommendationService(users store.UserStore, readings store.ReadingStore, foods store.FoodStore, log zerolog.Logger) *RecommendationService {
	return &RecommendationService{
		users:    users,
		readings: readings,
		foods:    foods,
		log:      log.With().Str("component", "recommendation").Logger(),
	}
}

// DeriveTrend maps the latest reading and latest forecast to a trend and the
// glycemic-index band to recommend from.
func DeriveTrend(latest *models.GlucoseReading, forecast *models.PredictedGlucose) (Trend, Band) {
	switch {
	case latest == nil:
		return TrendUnknown, Band{Min: 45, Max: 60}
	case forecast == nil:
		return TrendStable, Band{Min: 56, Max: 70}
	case forecast.Value > latest.Value:
		return TrendRising, Band{Min: 0, Max: 55}
	default:
		return TrendFalling, Band{Min: 56, Max: 70}
	}
}

// ParseAllergens splits a comma-separated allergen string into a normalized set.
func ParseAllergens(s string) []string {
	return NormalizeAllergens(strings.Split(s, ","))
}

// NormalizeAllergens lower-cases and trims names, dropping empties and
// duplicates while keeping first-seen order.
func NormalizeAllergens(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (s *RecommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID) (*RecommendationResult, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %v", ErrInternal, err)
	}

	latest, err := s.readings.LatestReading(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: latest reading: %v", ErrInternal, err)
	}
	forecast, err := s.readings.LatestPrediction(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: latest prediction: %v", ErrInternal, err)
	}

	trend, band := DeriveTrend(latest, forecast)
	exclude := NormalizeAllergens(user.AllergenNames())

	recs := make([]models.Food, 0, MaxRecommendations)
	for _, mq := range mealQuotas {
		foods, err := s.foods.FindFoods(ctx, store.FoodFilter{
			GIMin:            band.Min,
			GIMax:            band.Max,
			MealType:         mq.mealType,
			ExcludeAllergens: exclude,
			Limit:            mq.quota,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: food catalog: %v", ErrInternal, err)
		}
		recs = append(recs, foods...)
	}
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Str("trend", string(trend)).
		Int("count", len(recs)).
		Msg("recommendations assembled")

	return &RecommendationResult{Recommendations: recs, Trend: trend, Band: band}, nil
}
