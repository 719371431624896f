package server

import (
	"usermanagement/internal/handlers"
	"usermanagement/internal/middleware"
	"usermanagement/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dependencies bundles everything the HTTP layer needs.
type Dependencies struct {
	FrontendOrigin  string
	Logger          *zap.Logger
	UserService     *services.UserService
	ActivityService *services.ActivityLogService
	Ping            func() error
}

// New builds the Fiber app with middleware and all routes mounted.
func New(deps Dependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "usermanagement",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.FrontendOrigin,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.ClientIP())

	handlers.NewHealthHandler(deps.Ping).RegisterRoutes(app)

	api := app.Group("/api")
	handlers.NewAuthHandler(deps.UserService, logger).RegisterRoutes(api)
	handlers.NewUserHandler(deps.UserService, deps.ActivityService, logger).RegisterRoutes(api)

	return app
}
