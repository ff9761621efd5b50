package handlers

import (
	"bakimtrack/internal/app"
	dashboardController "bakimtrack/internal/controllers/dashboard"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Handler
	controller dashboardController.DashboardControllerInterface
}

func NewDashboardHandler(app app.App, router fiber.Router) *DashboardHandler {
	return &DashboardHandler{
		controller: app.Controllers.Dashboard,
		Handler: Handler{
			log:        logger.New("handlers").File("dashboard_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DashboardHandler) Register() {
	dashboard := h.router.Group("/dashboard", h.middleware.RequireAuth())
	dashboard.Get("/stats", h.getStats)
}

func (h *DashboardHandler) getStats(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	stats, err := h.controller.GetStats(c.UserContext(), *principal)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(stats)
}
