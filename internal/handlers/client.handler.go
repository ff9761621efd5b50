package handlers

import (
	"io"

	"bakimtrack/internal/app"
	clientController "bakimtrack/internal/controllers/clients"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ClientHandler struct {
	Handler
	controller clientController.ClientControllerInterface
}

func NewClientHandler(app app.App, router fiber.Router) *ClientHandler {
	return &ClientHandler{
		controller: app.Controllers.Client,
		Handler: Handler{
			log:        logger.New("handlers").File("client_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ClientHandler) Register() {
	clients := h.router.Group("/clients", h.middleware.RequireAuth())

	clients.Get("/", h.listClients)
	clients.Get("/:id", h.getClient)
	clients.Post("/", h.createClient)
	clients.Put("/:id", h.updateClient)
	clients.Delete("/:id", h.deleteClient)
}

func (h *ClientHandler) listClients(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	clients, err := h.controller.ListClients(c.UserContext(), *principal)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"clients": clients})
}

func (h *ClientHandler) getClient(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	client, err := h.controller.GetClient(c.UserContext(), *principal, clientID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"client": client})
}

// createClient accepts multipart form data so the logo can ride along with
// the name.
func (h *ClientHandler) createClient(c *fiber.Ctx) error {
	log := h.log.Function("createClient")
	principal := middleware.GetPrincipal(c)

	request := clientController.CreateClientRequest{
		Name: c.FormValue("name"),
	}

	logoData, contentType, err := readFormFile(c, "logo")
	if err != nil {
		log.Info("failed to read logo upload", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid logo upload"})
	}
	request.LogoData = logoData
	request.LogoContentType = contentType

	client, err := h.controller.CreateClient(c.UserContext(), *principal, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) updateClient(c *fiber.Ctx) error {
	log := h.log.Function("updateClient")
	principal := middleware.GetPrincipal(c)

	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	request := clientController.UpdateClientRequest{}
	if name := c.FormValue("name"); name != "" {
		request.Name = &name
	}

	logoData, contentType, err := readFormFile(c, "logo")
	if err != nil {
		log.Info("failed to read logo upload", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid logo upload"})
	}
	request.LogoData = logoData
	request.LogoContentType = contentType

	client, err := h.controller.UpdateClient(c.UserContext(), *principal, clientID, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) deleteClient(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	if err := h.controller.DeleteClient(c.UserContext(), *principal, clientID); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Client deleted"})
}

// readFormFile returns the named multipart file's bytes, or nil when the
// field is absent.
func readFormFile(c *fiber.Ctx, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// Absent file field is not an error for optional uploads.
		return nil, "", nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	return data, header.Header.Get("Content-Type"), nil
}
