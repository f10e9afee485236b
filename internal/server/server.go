package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/glucowise/backend/config"
	"github.com/pageza/glucowise/backend/internal/api"
	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/router"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
)

const shutdownTimeout = 15 * time.Second

// Server owns the HTTP listener and the prediction workers.
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	http       *http.Server
	dispatcher *service.PredictionDispatcher
	log        zerolog.Logger

	redis      *redis.Client
	images     api.ImageResolver
	forecaster service.Forecaster
}

// Option configures optional collaborators.
type Option func(*Server)

// WithRedis enables device ingestion rate limiting.
func WithRedis(client *redis.Client) Option {
	return func(s *Server) {
		s.redis = client
	}
}

// WithImages resolves food image references in responses.
func WithImages(images api.ImageResolver) Option {
	return func(s *Server) {
		s.images = images
	}
}

// WithForecaster replaces the HTTP forecasting client.
func WithForecaster(f service.Forecaster) Option {
	return func(s *Server) {
		s.forecaster = f
	}
}

// New wires stores, services and routes. Prediction workers start
// immediately.
func New(cfg *config.Config, db *gorm.DB, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(s)
	}
	pc := cfg.Prediction
	if s.forecaster == nil {
		s.forecaster = service.NewHTTPForecaster(pc.ForecastURL, pc.ForecastTimeout, pc.DefaultHorizon)
	}

	readings := store.NewReadingStore(db)
	users := store.NewUserStore(db)
	foods := store.NewFoodStore(db)

	predictions := service.NewPredictionService(readings, users, s.forecaster, pc.WindowSize, pc.MinHistory, log)
	s.dispatcher = service.NewPredictionDispatcher(predictions, pc.Workers, pc.QueueSize, log)

	authService := service.NewAuthService(users, cfg.JWTSecret, log)
	deviceService := service.NewDeviceService(users, users, log)

	s.router = router.SetupRouter(router.Dependencies{
		DB:              db,
		Log:             log,
		CORSOrigins:     cfg.CORSOrigins,
		Auth:            authService,
		Users:           service.NewUserService(users, log),
		Devices:         deviceService,
		Glucose:         service.NewGlucoseService(readings, users, s.dispatcher, log),
		Predictions:     predictions,
		Recommendations: service.NewRecommendationService(users, readings, foods, log),
		Foods:           service.NewFoodService(foods, log),
		Images:          s.images,
		DeviceLimiter: middleware.NewDeviceRateLimiter(
			s.redis, cfg.DeviceRateLimit.Limit, cfg.DeviceRateLimit.Window, log),
	})
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Dispatcher exposes the prediction queue, mainly for tests.
func (s *Server) Dispatcher() *service.PredictionDispatcher {
	return s.dispatcher
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.stopDispatcher()
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, then drains queued prediction work.
func (s *Server) Shutdown(ctx context.Context) error {
	var httpErr error
	if s.http != nil {
		httpErr = s.http.Shutdown(ctx)
	}
	if err := s.dispatcher.Stop(ctx); err != nil {
		s.log.Warn().Err(err).Msg("prediction queue not fully drained")
		if httpErr == nil {
			httpErr = err
		}
	}
	s.log.Info().Int64("dropped_tasks", s.dispatcher.Dropped()).Msg("server stopped")
	return httpErr
}

func (s *Server) stopDispatcher() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = s.dispatcher.Stop(ctx)
}
