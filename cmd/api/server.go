package main

import (
	"strings"

	"quiz-hub/internal/config"
	"quiz-hub/internal/domain"
	"quiz-hub/internal/handler"
	"quiz-hub/internal/middleware"

	_ "quiz-hub/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

const localFrontend = "http://localhost:3000"

// newServer assembles the fiber app with global middleware and every route.
func newServer(cfg *config.Config, h handler.Handlers, auth middleware.RequestAuthenticator) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg.Server.FrontendURL),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimit.Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.Max,
			Expiration: cfg.RateLimit.Window,
			LimitReached: func(c *fiber.Ctx) error {
				return domain.NewRateLimitedError("Too many requests, please try again later.")
			},
		}))
	}

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, h, auth)
	return app
}

func allowedOrigins(frontendURL string) string {
	origins := []string{localFrontend}
	if frontendURL = strings.TrimRight(frontendURL, "/"); frontendURL != "" && frontendURL != localFrontend {
		origins = append([]string{frontendURL}, origins...)
	}
	return strings.Join(origins, ",")
}
