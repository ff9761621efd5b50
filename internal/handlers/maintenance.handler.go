package handlers

import (
	"io"

	"bakimtrack/internal/app"
	maintenanceController "bakimtrack/internal/controllers/maintenance"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"
	"bakimtrack/internal/models"
	"bakimtrack/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MaintenanceHandler struct {
	Handler
	controller maintenanceController.MaintenanceControllerInterface
	storage    services.BlobStorage
}

func NewMaintenanceHandler(app app.App, router fiber.Router) *MaintenanceHandler {
	return &MaintenanceHandler{
		controller: app.Controllers.Maintenance,
		storage:    app.Services.Storage,
		Handler: Handler{
			log:        logger.New("handlers").File("maintenance_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MaintenanceHandler) Register() {
	// The scan endpoint is public: the printed code is the credential.
	h.router.Post("/qr/check", h.checkQR)

	logs := h.router.Group("/logs", h.middleware.RequireAuth())
	logs.Post("/", h.startLog)
	logs.Get("/", h.listLogs)
	logs.Get("/mine", h.listMyOpenLogs)
	logs.Get("/branch/:branchId", h.listLogsForBranch)
	logs.Get("/:id", h.getLog)
	logs.Put("/:id", h.updateLog)
	logs.Post("/:id/photos", h.uploadPhotos)
}

type qrCheckRequest struct {
	BranchID uuid.UUID `json:"branchId" validate:"required"`
	Code     string    `json:"code"     validate:"required"`
}

func (h *MaintenanceHandler) checkQR(c *fiber.Ctx) error {
	log := h.log.Function("checkQR")

	var request qrCheckRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse qr check request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.controller.ValidateQR(c.UserContext(), request.BranchID, request.Code)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(result)
}

func (h *MaintenanceHandler) startLog(c *fiber.Ctx) error {
	log := h.log.Function("startLog")
	principal := middleware.GetPrincipal(c)

	var request maintenanceController.StartLogRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse start log request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	maintenanceLog, err := h.controller.StartLog(c.UserContext(), *principal, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"log": maintenanceLog})
}

func (h *MaintenanceHandler) listLogs(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	request := maintenanceController.ListLogsRequest{
		Limit: c.QueryInt("limit"),
	}
	if statusQuery := c.Query("status"); statusQuery != "" {
		status := models.Status(statusQuery)
		request.Status = &status
	}

	logs, err := h.controller.ListLogs(c.UserContext(), *principal, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"logs": logs})
}

func (h *MaintenanceHandler) listMyOpenLogs(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	logs, err := h.controller.ListMyOpenLogs(c.UserContext(), *principal)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"logs": logs})
}

func (h *MaintenanceHandler) listLogsForBranch(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	branchID, err := uuid.Parse(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch id"})
	}

	logs, err := h.controller.ListLogsForBranch(c.UserContext(), *principal, branchID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"logs": logs})
}

func (h *MaintenanceHandler) getLog(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	logID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid log id"})
	}

	maintenanceLog, err := h.controller.GetLog(c.UserContext(), *principal, logID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"log": maintenanceLog})
}

func (h *MaintenanceHandler) updateLog(c *fiber.Ctx) error {
	log := h.log.Function("updateLog")
	principal := middleware.GetPrincipal(c)

	logID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid log id"})
	}

	var request maintenanceController.UpdateLogRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse update log request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	maintenanceLog, err := h.controller.UpdateLog(c.UserContext(), *principal, logID, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"log": maintenanceLog})
}

// uploadPhotos stores the multipart files and appends their URLs to the
// log through the same update path every other mutation uses.
func (h *MaintenanceHandler) uploadPhotos(c *fiber.Ctx) error {
	log := h.log.Function("uploadPhotos")
	principal := middleware.GetPrincipal(c)

	logID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid log id"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		log.Info("failed to parse multipart form", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid upload"})
	}

	files := form.File["photos"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No photos in request"})
	}

	urls := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid upload"})
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid upload"})
		}

		url, err := h.storage.Store(c.UserContext(), data, header.Header.Get("Content-Type"))
		if err != nil {
			return handleError(c, err)
		}
		urls = append(urls, url)
	}

	maintenanceLog, err := h.controller.UpdateLog(
		c.UserContext(), *principal, logID,
		&maintenanceController.UpdateLogRequest{NewPhotoURLs: urls},
	)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"log": maintenanceLog})
}
