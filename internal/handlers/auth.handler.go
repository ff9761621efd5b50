package handlers

import (
	"strings"

	"bakimtrack/internal/app"
	authController "bakimtrack/internal/controllers/auth"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	controller authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		controller: app.Controllers.Auth,
		Handler: Handler{
			log:        logger.New("handlers").File("auth_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.me)
	protected.Post("/logout", h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var request authController.LoginRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse login request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.controller.Login(c.UserContext(), &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(response)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	profile, err := h.controller.Me(c.UserContext(), *principal)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	token := bearerToken(c)
	if err := h.controller.Logout(c.UserContext(), token); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logout successful"})
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
