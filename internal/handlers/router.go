package handlers

import (
	"bakimtrack/internal/app"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) error {
	api := router.Group("/api")

	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewClientHandler(*app, api).Register()
	NewBranchHandler(*app, api).Register()
	NewTemplateHandler(*app, api).Register()
	NewMaintenanceHandler(*app, api).Register()
	NewDashboardHandler(*app, api).Register()

	return nil
}
