package router

import (
	"github.com/gin-gonic/gin"

	"github.com/medicare/booking-api/internal/handler"
	"github.com/medicare/booking-api/internal/handler/appointment"
	"github.com/medicare/booking-api/internal/handler/auth"
	"github.com/medicare/booking-api/internal/handler/availability"
	"github.com/medicare/booking-api/internal/handler/clinic"
	"github.com/medicare/booking-api/internal/handler/doctor"
	"github.com/medicare/booking-api/internal/handler/patient"
	"github.com/medicare/booking-api/internal/middleware"
	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/pkg/metrics"
)

// Handlers bundles the per-domain HTTP handlers the router mounts.
type Handlers struct {
	Base         *handler.Handler
	Auth         *auth.Handler
	Availability *availability.Handler
	Appointment  *appointment.Handler
	Doctor       *doctor.Handler
	Patient      *patient.Handler
	Clinic       *clinic.Handler
}

type Config struct {
	Mode      string
	CORS      middleware.CORSConfig
	RateLimit middleware.RateLimiterConfig
	Timeout   middleware.TimeoutConfig
}

// New assembles the gin engine: global middleware, health and metrics
// endpoints, then the versioned API with public and authenticated groups.
func New(h Handlers, authMW *middleware.AuthMiddleware, m *metrics.Metrics, cfg Config) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Timeout.Duration <= 0 {
		cfg.Timeout = middleware.DefaultTimeoutConfig()
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(m),
		middleware.ErrorHandler(),
		middleware.CORS(cfg.CORS),
		middleware.Timeout(cfg.Timeout),
		middleware.NewRateLimiter(cfg.RateLimit).RateLimit(),
	)

	engine.GET("/health/live", h.Base.LivenessCheck)
	engine.GET("/health/ready", h.Base.ReadinessCheck)
	engine.GET("/metrics", h.Base.MetricsHandler)

	v1 := engine.Group("/api/v1")

	// No token required for signup, login, or browsing the directory.
	h.Auth.RegisterRoutes(v1)
	h.Doctor.RegisterRoutes(v1)
	h.Clinic.RegisterRoutes(v1)
	v1.GET("/doctors/:id/availability", h.Availability.GetSchedule)
	v1.GET("/doctors/:id/feedback", h.Appointment.ListDoctorFeedback)

	authed := v1.Group("")
	authed.Use(authMW.Authenticate())
	{
		authed.PUT("/doctors/:id/availability", h.Availability.ReplaceSchedule)
		h.Appointment.RegisterRoutes(authed)
		h.Patient.RegisterRoutes(authed)
	}

	admin := v1.Group("")
	admin.Use(authMW.Authenticate(), authMW.RequireRole(model.UserRoleAdmin))
	{
		h.Appointment.RegisterAdminRoutes(admin)
		h.Doctor.RegisterAdminRoutes(admin)
		h.Clinic.RegisterAdminRoutes(admin)
	}

	return engine
}
