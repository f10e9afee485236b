package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/testhelpers"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// recordingTrigger counts Enqueue calls per user.
type recordingTrigger struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *recordingTrigger) Enqueue(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID)
}

func (r *recordingTrigger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// stubForecaster returns canned points and counts calls.
type stubForecaster struct {
	mu     sync.Mutex
	points []service.ForecastPoint
	err    error
	inputs [][]float64
}

func (f *stubForecaster) Forecast(_ context.Context, _ uuid.UUID, values []float64) ([]service.ForecastPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, append([]float64(nil), values...))
	return f.points, f.err
}

func (f *stubForecaster) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type stores struct {
	db       *gorm.DB
	users    *store.GormUserStore
	readings *store.GormReadingStore
	foods    *store.GormFoodStore
}

func newStores(t *testing.T) stores {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	return stores{
		db:       db,
		users:    store.NewUserStore(db),
		readings: store.NewReadingStore(db),
		foods:    store.NewFoodStore(db),
	}
}

var nopLog = zerolog.Nop()
