package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/exam-registration/internal/config"
	"github.com/iliyamo/exam-registration/internal/database"
	"github.com/iliyamo/exam-registration/internal/email"
	"github.com/iliyamo/exam-registration/internal/handler"
	"github.com/iliyamo/exam-registration/internal/hallticket"
	"github.com/iliyamo/exam-registration/internal/logger"
	"github.com/iliyamo/exam-registration/internal/middleware"
	"github.com/iliyamo/exam-registration/internal/queue"
	"github.com/iliyamo/exam-registration/internal/repository"
	"github.com/iliyamo/exam-registration/internal/router"
)

func main() {
	// .env is optional; in containers the variables come from the
	// environment directly.
	_ = godotenv.Load()

	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	log := logger.Get()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Redis backs both the one-time codes and the rate limiter; the
	// portal cannot verify accounts without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal().Msg("redis connection failed")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	details := repository.NewUserDetailsRepo(db)
	exams := repository.NewExamRepo(db)
	registrations := repository.NewRegistrationRepo(db)
	notifications := repository.NewNotificationRepo(db)
	otps := repository.NewOTPRepo(rdb, time.Duration(cfg.OTPTTLMin)*time.Minute)

	mail := email.NewSender(config.LoadSMTPConfig())
	tickets := hallticket.NewGenerator(cfg.StorageDir, cfg.PublicBaseURL)

	authHandler := handler.NewAuthHandler(cfg, users, tokens, otps, mail)
	profileHandler := handler.NewProfileHandler(details)
	examHandler := handler.NewExamHandler(exams)
	registrationHandler := handler.NewRegistrationHandler(db, exams, registrations, details)
	reviewHandler := handler.NewReviewHandler(db, registrations, exams, users, details, tickets)
	notificationHandler := handler.NewNotificationHandler(notifications, exams)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e, cfg.StorageDir)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, limiter)
	router.RegisterStudent(e, profileHandler, examHandler, registrationHandler, notificationHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, examHandler, reviewHandler, notificationHandler, cfg.JWTSecret)

	// The consumer drains the review and notification queues in the
	// background, reconnecting on broker failures.
	consumer := &queue.Consumer{Mail: mail, Notifications: notifications}
	go func() {
		if err := consumer.Start(); err != nil {
			log.Error().Err(err).Msg("queue consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
