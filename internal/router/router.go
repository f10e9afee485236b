package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/glucowise/backend/internal/api"
	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/service"
)

// Dependencies is everything the HTTP layer needs. Images and DeviceLimiter
// are optional.
type Dependencies struct {
	DB          *gorm.DB
	Log         zerolog.Logger
	CORSOrigins []string

	Auth            service.IAuthService
	Users           service.IUserService
	Devices         service.IDeviceService
	Glucose         service.IGlucoseService
	Predictions     service.IPredictionService
	Recommendations service.IRecommendationService
	Foods           service.IFoodService

	Images        api.ImageResolver
	DeviceLimiter *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(middleware.CORS(d.CORSOrigins))

	router.GET("/health", api.HealthCheck(d.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	api.NewAuthHandler(d.Auth).RegisterRoutes(v1)

	// Session-authenticated routes
	protected := v1.Group("", middleware.AuthMiddleware(d.Auth))
	glucoseHandler := api.NewGlucoseHandler(d.Glucose)
	glucoseHandler.RegisterRoutes(protected)
	api.NewUserHandler(d.Users).RegisterRoutes(protected)
	api.NewDeviceHandler(d.Devices).RegisterRoutes(protected)
	api.NewPredictionHandler(d.Predictions).RegisterRoutes(protected)
	api.NewRecommendationHandler(d.Recommendations, d.Images, d.Log).RegisterRoutes(protected)
	api.NewFoodHandler(d.Foods, d.Images, d.Log).RegisterRoutes(protected)

	// Device-key routes
	deviceAuth := middleware.DeviceAuth(d.Devices, d.Log)
	deviceChain := []gin.HandlerFunc{deviceAuth}
	if d.DeviceLimiter != nil {
		deviceChain = append(deviceChain, d.DeviceLimiter.RateLimitMiddleware())
	}
	glucoseHandler.RegisterDeviceRoutes(v1, deviceChain...)
	if d.DeviceLimiter != nil && d.DeviceLimiter.Enabled() {
		api.RegisterRateLimitRoutes(v1.Group("", deviceAuth), d.DeviceLimiter)
	}

	return router
}
