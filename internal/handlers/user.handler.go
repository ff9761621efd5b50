package handlers

import (
	"bakimtrack/internal/app"
	userController "bakimtrack/internal/controllers/users"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	Handler
	controller userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		controller: app.Controllers.User,
		Handler: Handler{
			log:        logger.New("handlers").File("user_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())

	users.Get("/", h.listUsers)
	users.Get("/:id", h.getUser)
	users.Post("/", h.createUser)
	users.Put("/:id", h.updateUser)
	users.Delete("/:id", h.deleteUser)
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	users, err := h.controller.ListUsers(c.UserContext(), *principal)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	user, err := h.controller.GetUser(c.UserContext(), *principal, userID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"user": user.ToProfile()})
}

func (h *UserHandler) createUser(c *fiber.Ctx) error {
	log := h.log.Function("createUser")
	principal := middleware.GetPrincipal(c)

	var request userController.CreateUserRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse create user request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.controller.CreateUser(c.UserContext(), *principal, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user.ToProfile()})
}

func (h *UserHandler) updateUser(c *fiber.Ctx) error {
	log := h.log.Function("updateUser")
	principal := middleware.GetPrincipal(c)

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var request userController.UpdateUserRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse update user request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.controller.UpdateUser(c.UserContext(), *principal, userID, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"user": user.ToProfile()})
}

func (h *UserHandler) deleteUser(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	if err := h.controller.DeleteUser(c.UserContext(), *principal, userID); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}
