package server

import (
	"context"
	"errors"
	"time"

	"github.com/Aryasuta/Elliptical-Backend/internal/config"
	"github.com/Aryasuta/Elliptical-Backend/internal/db"
	"github.com/Aryasuta/Elliptical-Backend/internal/events"
	"github.com/Aryasuta/Elliptical-Backend/internal/log"
	"github.com/Aryasuta/Elliptical-Backend/internal/observability"
	"github.com/Aryasuta/Elliptical-Backend/internal/scan"
	"github.com/Aryasuta/Elliptical-Backend/internal/session"
	"github.com/Aryasuta/Elliptical-Backend/internal/user"
	"github.com/Aryasuta/Elliptical-Backend/internal/workout"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      db.Querier
	Redis   *redis.Client
	Marker  scan.Marker
	Manager *session.Manager
}

func NewServer(cfg config.Config, querier db.Querier, redisClient *redis.Client, publisher events.Publisher) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	var marker scan.Marker
	if redisClient != nil {
		marker = scan.NewRedisMarker(redisClient, cfg.ScanTTL)
	} else {
		marker = scan.NewMemoryMarker(cfg.ScanTTL)
	}

	users := user.NewService(querier)
	calibration := workout.Calibration{
		MetersPerTick:   cfg.MetersPerTick,
		MET:             cfg.MET,
		DefaultWeightKg: cfg.DefaultWeightKg,
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     querier,
		Redis:  redisClient,
		Marker: marker,
		Manager: session.NewManager(users, session.NewStore(querier), marker,
			session.WithCalibration(calibration),
			session.WithPublisher(publisher),
			session.WithDefaultDevice(cfg.DefaultDeviceID),
		),
	}

	registerRoutes(s, users)
	return s
}

func registerRoutes(s *Server, users *user.Service) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, s.DB); err != nil {
			logger := log.WithComponent("http")
			logger.Warn().Err(err).Msg("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", observability.Handler())

	scan.RegisterRoutes(s.App.Group("/scan"), s.Marker, s.Cfg.DefaultDeviceID)
	session.RegisterRoutes(s.App.Group("/sessions"), s.Manager)
	user.RegisterRoutes(s.App.Group("/users"), users)

	if s.Cfg.StaticDir != "" {
		s.App.Static("/", s.Cfg.StaticDir)
	}
}

// errorHandler renders every error as {"message": ...}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logger := log.WithComponent("http")
		logger.Error().Err(err).
			Str(log.FieldMethod, c.Method()).
			Str(log.FieldPath, c.Path()).
			Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}

func requestLogger() fiber.Handler {
	logger := log.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		logger.Info().
			Str(log.FieldMethod, c.Method()).
			Str(log.FieldPath, c.Path()).
			Int(log.FieldStatus, c.Response().StatusCode()).
			Dur(log.FieldLatency, time.Since(start)).
			Msg("request")
		return nil
	}
}
