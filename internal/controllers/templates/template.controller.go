package templateController

import (
	"context"
	"strings"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreateTemplateRequest struct {
	Name         string     `json:"name"  validate:"required"`
	Items        []string   `json:"items" validate:"required"`
	Instructions *string    `json:"instructions,omitempty"`
	IsGlobal     bool       `json:"isGlobal"`
	ClientID     *uuid.UUID `json:"clientId,omitempty"`
}

type UpdateTemplateRequest struct {
	Name         *string    `json:"name,omitempty"`
	Items        []string   `json:"items,omitempty"`
	Instructions *string    `json:"instructions,omitempty"`
	IsGlobal     *bool      `json:"isGlobal,omitempty"`
	ClientID     *uuid.UUID `json:"clientId,omitempty"`
}

type TemplateControllerInterface interface {
	ListTemplates(ctx context.Context, principal Principal) ([]ChecklistTemplate, error)
	ListTemplatesForBranch(ctx context.Context, branchID uuid.UUID) ([]ChecklistTemplate, error)
	GetTemplate(
		ctx context.Context,
		principal Principal,
		templateID uuid.UUID,
	) (*ChecklistTemplate, error)
	CreateTemplate(
		ctx context.Context,
		principal Principal,
		request *CreateTemplateRequest,
	) (*ChecklistTemplate, error)
	UpdateTemplate(
		ctx context.Context,
		principal Principal,
		templateID uuid.UUID,
		request *UpdateTemplateRequest,
	) (*ChecklistTemplate, error)
	DeleteTemplate(ctx context.Context, principal Principal, templateID uuid.UUID) error
}

type TemplateController struct {
	templateRepo repositories.ChecklistTemplateRepository
	branchRepo   repositories.BranchRepository
	checklist    *services.ChecklistService
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	checklist *services.ChecklistService,
) TemplateControllerInterface {
	return &TemplateController{
		templateRepo: repos.Template,
		branchRepo:   repos.Branch,
		checklist:    checklist,
		log:          logger.New("templateController"),
	}
}

// Template management is SUPER_ADMIN territory. Other roles only ever see
// the branch-scoped listing the QR flow uses.
func (c *TemplateController) requireAdmin(principal Principal) error {
	if principal.Role != RoleSuperAdmin {
		return c.log.ErrorWithType(apperrors.ErrAccessDenied,
			"only an administrator may manage templates", "role", principal.Role)
	}
	return nil
}

func (c *TemplateController) ListTemplates(
	ctx context.Context,
	principal Principal,
) ([]ChecklistTemplate, error) {
	log := c.log.Function("ListTemplates")

	if err := c.requireAdmin(principal); err != nil {
		return nil, err
	}

	templates, err := c.templateRepo.ListAll(ctx)
	if err != nil {
		return nil, log.Err("failed to list templates", err)
	}

	return templates, nil
}

func (c *TemplateController) ListTemplatesForBranch(
	ctx context.Context,
	branchID uuid.UUID,
) ([]ChecklistTemplate, error) {
	log := c.log.Function("ListTemplatesForBranch")

	branch, err := c.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, log.Err("failed to get branch", err, "branchID", branchID)
	}

	return c.checklist.TemplatesForBranch(ctx, branch)
}

func (c *TemplateController) GetTemplate(
	ctx context.Context,
	principal Principal,
	templateID uuid.UUID,
) (*ChecklistTemplate, error) {
	log := c.log.Function("GetTemplate")

	if err := c.requireAdmin(principal); err != nil {
		return nil, err
	}

	template, err := c.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, log.Err("failed to get template", err, "templateID", templateID)
	}

	return template, nil
}

func (c *TemplateController) CreateTemplate(
	ctx context.Context,
	principal Principal,
	request *CreateTemplateRequest,
) (*ChecklistTemplate, error) {
	log := c.log.Function("CreateTemplate")

	if err := c.requireAdmin(principal); err != nil {
		return nil, err
	}

	template := &ChecklistTemplate{
		Name:         strings.TrimSpace(request.Name),
		Items:        datatypes.JSONSlice[string](request.Items),
		Instructions: request.Instructions,
		IsGlobal:     request.IsGlobal,
		ClientID:     request.ClientID,
	}

	if template.Name == "" {
		return nil, log.ErrorWithType(apperrors.ErrValidation, "template name is required")
	}
	if err := template.Validate(); err != nil {
		return nil, log.Err("invalid template", err)
	}

	if err := c.templateRepo.Create(ctx, template); err != nil {
		return nil, log.Err("failed to create template", err, "name", template.Name)
	}

	return template, nil
}

func (c *TemplateController) UpdateTemplate(
	ctx context.Context,
	principal Principal,
	templateID uuid.UUID,
	request *UpdateTemplateRequest,
) (*ChecklistTemplate, error) {
	log := c.log.Function("UpdateTemplate")

	if err := c.requireAdmin(principal); err != nil {
		return nil, err
	}

	template, err := c.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, log.Err("failed to get template", err, "templateID", templateID)
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, log.ErrorWithType(apperrors.ErrValidation, "template name cannot be empty")
		}
		template.Name = name
	}
	if request.Items != nil {
		template.Items = datatypes.JSONSlice[string](request.Items)
	}
	if request.Instructions != nil {
		template.Instructions = request.Instructions
	}
	if request.IsGlobal != nil {
		template.IsGlobal = *request.IsGlobal
	}
	if request.ClientID != nil {
		template.ClientID = request.ClientID
	}
	if template.IsGlobal {
		template.ClientID = nil
	}

	if err := template.Validate(); err != nil {
		return nil, log.Err("invalid template", err, "templateID", templateID)
	}

	if err := c.templateRepo.Update(ctx, template); err != nil {
		return nil, log.Err("failed to update template", err, "templateID", templateID)
	}

	return template, nil
}

func (c *TemplateController) DeleteTemplate(
	ctx context.Context,
	principal Principal,
	templateID uuid.UUID,
) error {
	log := c.log.Function("DeleteTemplate")

	if err := c.requireAdmin(principal); err != nil {
		return err
	}

	if err := c.templateRepo.Delete(ctx, templateID); err != nil {
		return log.Err("failed to delete template", err, "templateID", templateID)
	}

	return nil
}
