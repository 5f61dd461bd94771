package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medicare/booking-api/internal/config"
	"github.com/medicare/booking-api/internal/email"
	"github.com/medicare/booking-api/internal/handler"
	appointmentHandler "github.com/medicare/booking-api/internal/handler/appointment"
	authHandler "github.com/medicare/booking-api/internal/handler/auth"
	availabilityHandler "github.com/medicare/booking-api/internal/handler/availability"
	clinicHandler "github.com/medicare/booking-api/internal/handler/clinic"
	doctorHandler "github.com/medicare/booking-api/internal/handler/doctor"
	patientHandler "github.com/medicare/booking-api/internal/handler/patient"
	"github.com/medicare/booking-api/internal/lock"
	"github.com/medicare/booking-api/internal/middleware"
	"github.com/medicare/booking-api/internal/repository/postgres"
	"github.com/medicare/booking-api/internal/router"
	availabilityService "github.com/medicare/booking-api/internal/service/availability"
	bookingService "github.com/medicare/booking-api/internal/service/booking"
	clinicService "github.com/medicare/booking-api/internal/service/clinic"
	doctorService "github.com/medicare/booking-api/internal/service/doctor"
	patientService "github.com/medicare/booking-api/internal/service/patient"
	userService "github.com/medicare/booking-api/internal/service/user"
	"github.com/medicare/booking-api/pkg/auth"
	"github.com/medicare/booking-api/pkg/logger"
	"github.com/medicare/booking-api/pkg/metrics"
	"github.com/medicare/booking-api/pkg/security"
	"github.com/medicare/booking-api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.New(&logger.Config{
		Level:  level,
		Pretty: cfg.Log.Pretty,
	})
	log.Logger = *appLogger.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	specialtyRepo := postgres.NewSpecialtyRepository(db)

	var locker lock.SlotLocker
	if cfg.Redis.URL != "" {
		redisLocker, err := lock.NewRedisLocker(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisLocker.Close()
		locker = redisLocker
	} else {
		log.Warn().Msg("redis not configured, using in-process slot locks")
		locker = lock.NewMemoryLocker()
	}

	notifier := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, userRepo, patientRepo)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	hasher := security.NewBcryptHasher(0)

	userSvc := userService.NewService(userRepo, hasher, jwtService)
	doctorSvc := doctorService.NewService(doctorRepo)
	patientSvc := patientService.NewService(patientRepo)
	clinicSvc := clinicService.NewService(clinicRepo, specialtyRepo)
	availabilitySvc := availabilityService.NewService(availabilityRepo)
	bookingSvc := bookingService.NewService(
		patientRepo,
		doctorRepo,
		availabilityRepo,
		appointmentRepo,
		paymentRepo,
		feedbackRepo,
		locker,
		notifier,
	)

	v := validator.New()
	m := metrics.New("booking_api")
	authMW := middleware.NewAuthMiddleware(jwtService)

	handlers := router.Handlers{
		Base:         handler.NewHandler(db),
		Auth:         authHandler.NewHandler(userSvc, v),
		Availability: availabilityHandler.NewHandler(availabilitySvc, doctorSvc, v, m),
		Appointment:  appointmentHandler.NewHandler(bookingSvc, v, m),
		Doctor:       doctorHandler.NewHandler(doctorSvc, v),
		Patient:      patientHandler.NewHandler(patientSvc, v),
		Clinic:       clinicHandler.NewHandler(clinicSvc, v),
	}

	engine := router.New(handlers, authMW, m, router.Config{
		Mode: cfg.Server.Mode,
		CORS: middleware.DefaultCORSConfig(),
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
		Timeout: middleware.TimeoutConfig{Duration: cfg.Server.RequestTimeout},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
