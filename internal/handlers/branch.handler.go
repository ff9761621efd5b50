package handlers

import (
	"bakimtrack/internal/app"
	branchController "bakimtrack/internal/controllers/branches"
	"bakimtrack/internal/handlers/middleware"
	"bakimtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BranchHandler struct {
	Handler
	controller branchController.BranchControllerInterface
}

func NewBranchHandler(app app.App, router fiber.Router) *BranchHandler {
	return &BranchHandler{
		controller: app.Controllers.Branch,
		Handler: Handler{
			log:        logger.New("handlers").File("branch_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BranchHandler) Register() {
	branches := h.router.Group("/branches", h.middleware.RequireAuth())

	branches.Get("/", h.listBranches)
	branches.Get("/:id", h.getBranch)
	branches.Post("/", h.createBranch)
	branches.Post("/import", h.importBranches)
	branches.Put("/:id", h.updateBranch)
	branches.Delete("/:id", h.deleteBranch)
}

func (h *BranchHandler) listBranches(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	branches, err := h.controller.ListBranches(c.UserContext(), *principal)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"branches": branches})
}

func (h *BranchHandler) getBranch(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	branchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch id"})
	}

	branch, err := h.controller.GetBranch(c.UserContext(), *principal, branchID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"branch": branch})
}

func (h *BranchHandler) createBranch(c *fiber.Ctx) error {
	log := h.log.Function("createBranch")
	principal := middleware.GetPrincipal(c)

	var request branchController.CreateBranchRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse create branch request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	branch, err := h.controller.CreateBranch(c.UserContext(), *principal, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"branch": branch})
}

type importBranchesRequest struct {
	ClientID uuid.UUID                          `json:"clientId" validate:"required"`
	Rows     []branchController.BranchImportRow `json:"rows"     validate:"required"`
}

// importBranches takes already-parsed spreadsheet rows. Parsing the sheet
// itself happens client-side.
func (h *BranchHandler) importBranches(c *fiber.Ctx) error {
	log := h.log.Function("importBranches")
	principal := middleware.GetPrincipal(c)

	var request importBranchesRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse import request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.controller.ImportBranches(
		c.UserContext(), *principal, request.ClientID, request.Rows,
	)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(result)
}

func (h *BranchHandler) updateBranch(c *fiber.Ctx) error {
	log := h.log.Function("updateBranch")
	principal := middleware.GetPrincipal(c)

	branchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch id"})
	}

	var request branchController.UpdateBranchRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse update branch request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	branch, err := h.controller.UpdateBranch(c.UserContext(), *principal, branchID, &request)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"branch": branch})
}

func (h *BranchHandler) deleteBranch(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	branchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch id"})
	}

	if err := h.controller.DeleteBranch(c.UserContext(), *principal, branchID); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Branch deleted"})
}
