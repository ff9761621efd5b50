package branchController

import (
	"context"
	"fmt"
	"strings"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	"github.com/google/uuid"
)

type CreateBranchRequest struct {
	Name     string    `json:"name"     validate:"required"`
	Address  *string   `json:"address,omitempty"`
	ClientID uuid.UUID `json:"clientId" validate:"required"`
}

type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

// BranchImportRow is one spreadsheet row in a bulk import.
type BranchImportRow struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

// ImportResult reports the outcome of a bulk import per row. Failures
// carry the row number so the operator can fix the sheet.
type ImportResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

type BranchControllerInterface interface {
	ListBranches(ctx context.Context, principal Principal) ([]Branch, error)
	GetBranch(ctx context.Context, principal Principal, branchID uuid.UUID) (*Branch, error)
	CreateBranch(
		ctx context.Context,
		principal Principal,
		request *CreateBranchRequest,
	) (*Branch, error)
	UpdateBranch(
		ctx context.Context,
		principal Principal,
		branchID uuid.UUID,
		request *UpdateBranchRequest,
	) (*Branch, error)
	DeleteBranch(ctx context.Context, principal Principal, branchID uuid.UUID) error
	ImportBranches(
		ctx context.Context,
		principal Principal,
		clientID uuid.UUID,
		rows []BranchImportRow,
	) (*ImportResult, error)
}

type BranchController struct {
	branchRepo repositories.BranchRepository
	clientRepo repositories.ClientRepository
	scope      *services.ScopeService
	log        logger.Logger
}

func New(repos repositories.Repository, scope *services.ScopeService) BranchControllerInterface {
	return &BranchController{
		branchRepo: repos.Branch,
		clientRepo: repos.Client,
		scope:      scope,
		log:        logger.New("branchController"),
	}
}

func (c *BranchController) ListBranches(
	ctx context.Context,
	principal Principal,
) ([]Branch, error) {
	log := c.log.Function("ListBranches")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	branches, err := c.branchRepo.List(ctx, scope.Branches)
	if err != nil {
		return nil, log.Err("failed to list branches", err, "userID", principal.UserID)
	}

	return branches, nil
}

func (c *BranchController) GetBranch(
	ctx context.Context,
	principal Principal,
	branchID uuid.UUID,
) (*Branch, error) {
	log := c.log.Function("GetBranch")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	branch, err := c.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, log.Err("failed to get branch", err, "branchID", branchID)
	}

	if !scope.Branches.Allows(branch) {
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"branch outside principal scope", "branchID", branchID)
	}

	return branch, nil
}

// CreateBranch is for administrators and project managers within their
// client scope. The QR code is generated on insert and never changes.
func (c *BranchController) CreateBranch(
	ctx context.Context,
	principal Principal,
	request *CreateBranchRequest,
) (*Branch, error) {
	log := c.log.Function("CreateBranch")

	if err := c.authorizeManage(ctx, principal, request.ClientID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, log.ErrorWithType(apperrors.ErrValidation, "branch name is required")
	}

	if _, err := c.clientRepo.GetByID(ctx, request.ClientID); err != nil {
		return nil, log.Err("failed to get owning client", err, "clientID", request.ClientID)
	}

	branch := &Branch{
		Name:     name,
		Address:  request.Address,
		ClientID: request.ClientID,
	}

	if err := c.branchRepo.Create(ctx, branch); err != nil {
		return nil, log.Err("failed to create branch", err, "name", name)
	}

	return c.branchRepo.GetByID(ctx, branch.ID)
}

func (c *BranchController) UpdateBranch(
	ctx context.Context,
	principal Principal,
	branchID uuid.UUID,
	request *UpdateBranchRequest,
) (*Branch, error) {
	log := c.log.Function("UpdateBranch")

	branch, err := c.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, log.Err("failed to get branch", err, "branchID", branchID)
	}

	if err := c.authorizeManage(ctx, principal, branch.ClientID); err != nil {
		return nil, err
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, log.ErrorWithType(apperrors.ErrValidation, "branch name cannot be empty")
		}
		branch.Name = name
	}
	if request.Address != nil {
		branch.Address = request.Address
	}

	if err := c.branchRepo.Update(ctx, branch); err != nil {
		return nil, log.Err("failed to update branch", err, "branchID", branchID)
	}

	return c.branchRepo.GetByID(ctx, branchID)
}

func (c *BranchController) DeleteBranch(
	ctx context.Context,
	principal Principal,
	branchID uuid.UUID,
) error {
	log := c.log.Function("DeleteBranch")

	branch, err := c.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return log.Err("failed to get branch", err, "branchID", branchID)
	}

	if err := c.authorizeManage(ctx, principal, branch.ClientID); err != nil {
		return err
	}

	if err := c.branchRepo.Delete(ctx, branchID); err != nil {
		return log.Err("failed to delete branch", err, "branchID", branchID)
	}

	return nil
}

// ImportBranches creates branches from spreadsheet rows in bulk. Each row
// succeeds or fails independently and the result says which.
func (c *BranchController) ImportBranches(
	ctx context.Context,
	principal Principal,
	clientID uuid.UUID,
	rows []BranchImportRow,
) (*ImportResult, error) {
	log := c.log.Function("ImportBranches")

	if err := c.authorizeManage(ctx, principal, clientID); err != nil {
		return nil, err
	}

	if _, err := c.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, log.Err("failed to get owning client", err, "clientID", clientID)
	}

	result := &ImportResult{}
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: branch name is required", i+1))
			continue
		}

		branch := &Branch{Name: name, Address: row.Address, ClientID: clientID}
		if err := c.branchRepo.Create(ctx, branch); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}

	log.Info("branch import finished",
		"clientID", clientID, "created", result.Created, "failed", result.Failed)
	return result, nil
}

// authorizeManage allows SUPER_ADMIN everywhere and PROJECT_MANAGER within
// assigned clients. Branch managers and field staff never manage branches.
func (c *BranchController) authorizeManage(
	ctx context.Context,
	principal Principal,
	clientID uuid.UUID,
) error {
	log := c.log.Function("authorizeManage")

	switch principal.Role {
	case RoleSuperAdmin:
		return nil
	case RoleProjectManager:
		scope, err := c.scope.Resolve(ctx, principal)
		if err != nil {
			return log.Err("failed to resolve scope", err, "userID", principal.UserID)
		}
		if !scope.Clients.Contains(clientID) {
			return log.ErrorWithType(apperrors.ErrAccessDenied,
				"client outside principal scope", "clientID", clientID)
		}
		return nil
	default:
		return log.ErrorWithType(apperrors.ErrAccessDenied,
			"role may not manage branches", "role", principal.Role)
	}
}
