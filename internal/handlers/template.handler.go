package handlers

import (
	"bakimtrack/internal/app"
	templateController "bakimtrack/internal/controllers/templates"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TemplateHandler struct {
	Handler
	controller templateController.TemplateControllerInterface
}

func NewTemplateHandler(app app.App, router fiber.Router) *TemplateHandler {
	return &TemplateHandler{
		controller: app.Controllers.Template,
		Handler: Handler{
			log:        logger.New("handlers").File("template_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TemplateHandler) Register() {
	templates := h.router.Group("/templates", h.middleware.RequireAuth())

	templates.Get("/", h.listTemplates)
	templates.Get("/branch/:branchId", h.listTemplatesForBranch)
	templates.Get("/:id", h.getTemplate)
	templates.Post("/", h.createTemplate)
	templates.Put("/:id", h.updateTemplate)
	templates.Delete("/:id", h.deleteTemplate)
}

func (h *TemplateHandler) listTemplates(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	templates, err := h.controller.ListTemplates(c.UserContext(), *principal)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"templates": templates})
}

func (h *TemplateHandler) listTemplatesForBranch(c *fiber.Ctx) error {
	branchID, err := uuid.Parse(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch id"})
	}

	templates, err := h.controller.ListTemplatesForBranch(c.UserContext(), branchID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"templates": templates})
}

func (h *TemplateHandler) getTemplate(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template id"})
	}

	template, err := h.controller.GetTemplate(c.UserContext(), *principal, templateID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"template": template})
}

func (h *TemplateHandler) createTemplate(c *fiber.Ctx) error {
	log := h.log.Function("createTemplate")
	principal := middleware.GetPrincipal(c)

	var request templateController.CreateTemplateRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse create template request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	template, err := h.controller.CreateTemplate(c.UserContext(), *principal, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": template})
}

func (h *TemplateHandler) updateTemplate(c *fiber.Ctx) error {
	log := h.log.Function("updateTemplate")
	principal := middleware.GetPrincipal(c)

	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template id"})
	}

	var request templateController.UpdateTemplateRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse update template request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	template, err := h.controller.UpdateTemplate(c.UserContext(), *principal, templateID, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"template": template})
}

func (h *TemplateHandler) deleteTemplate(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template id"})
	}

	if err := h.controller.DeleteTemplate(c.UserContext(), *principal, templateID); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Template deleted"})
}
