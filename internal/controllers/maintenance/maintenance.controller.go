package maintenanceController

import (
	"context"
	"fmt"
	"time"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"
	"bakimtrack/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QRCheckResult is what a successful QR scan returns: the branch, the
// templates the technician may pick from, and the branch's open logs so
// the caller can offer resuming instead of starting a duplicate.
type QRCheckResult struct {
	Branch     *Branch             `json:"branch"`
	Templates  []ChecklistTemplate `json:"templates"`
	ActiveLogs []MaintenanceLog    `json:"activeLogs"`
}

type StartLogRequest struct {
	BranchID   uuid.UUID  `json:"branchId"             validate:"required"`
	TemplateID *uuid.UUID `json:"templateId,omitempty"`
}

type ChecklistItemUpdate struct {
	ID        uuid.UUID `json:"id"        validate:"required"`
	IsChecked bool      `json:"isChecked"`
	Note      *string   `json:"note,omitempty"`
}

// UpdateLogRequest carries one log mutation: an optional status
// transition plus field edits, applied atomically.
type UpdateLogRequest struct {
	Status         *Status               `json:"status,omitempty"`
	Notes          *string               `json:"notes,omitempty"`
	ChecklistItems []ChecklistItemUpdate `json:"checklistItems,omitempty"`
	NewPhotoURLs   []string              `json:"newPhotoUrls,omitempty"`
	IsArchived     *bool                 `json:"isArchived,omitempty"`
}

type ListLogsRequest struct {
	Status *Status `json:"status,omitempty"`
	Limit  int     `json:"limit,omitempty"`
}

type MaintenanceControllerInterface interface {
	ValidateQR(ctx context.Context, branchID uuid.UUID, code string) (*QRCheckResult, error)
	StartLog(
		ctx context.Context,
		principal Principal,
		request *StartLogRequest,
	) (*MaintenanceLog, error)
	GetLog(ctx context.Context, principal Principal, logID uuid.UUID) (*MaintenanceLog, error)
	UpdateLog(
		ctx context.Context,
		principal Principal,
		logID uuid.UUID,
		request *UpdateLogRequest,
	) (*MaintenanceLog, error)
	ListLogs(
		ctx context.Context,
		principal Principal,
		request *ListLogsRequest,
	) ([]MaintenanceLog, error)
	ListLogsForBranch(
		ctx context.Context,
		principal Principal,
		branchID uuid.UUID,
	) ([]MaintenanceLog, error)
	ListMyOpenLogs(ctx context.Context, principal Principal) ([]MaintenanceLog, error)
}

type MaintenanceController struct {
	logRepo    repositories.MaintenanceLogRepository
	branchRepo repositories.BranchRepository
	scope      *services.ScopeService
	checklist  *services.ChecklistService
	transactor services.Transactor
	log        logger.Logger
}

func New(
	repos repositories.Repository,
	scope *services.ScopeService,
	checklist *services.ChecklistService,
	transactor services.Transactor,
) MaintenanceControllerInterface {
	return &MaintenanceController{
		logRepo:    repos.Log,
		branchRepo: repos.Branch,
		scope:      scope,
		checklist:  checklist,
		transactor: transactor,
		log:        logger.New("maintenanceController"),
	}
}

// ValidateQR is the scan entry point. It is unauthenticated: possession of
// the branch's printed code is the credential. An unknown branch and a
// wrong code stay distinct error kinds.
func (c *MaintenanceController) ValidateQR(
	ctx context.Context,
	branchID uuid.UUID,
	code string,
) (*QRCheckResult, error) {
	log := c.log.Function("ValidateQR")

	branch, err := c.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, log.Err("failed to load branch for qr check", err, "branchID", branchID)
	}

	if code == "" || branch.QRCode != code {
		return nil, log.ErrorWithType(apperrors.ErrInvalidCode,
			"scanned code does not match branch", "branchID", branchID)
	}

	templates, err := c.checklist.TemplatesForBranch(ctx, branch)
	if err != nil {
		return nil, log.Err("failed to list templates for branch", err, "branchID", branchID)
	}

	activeLogs, err := c.logRepo.ListActiveForBranch(ctx, branchID)
	if err != nil {
		return nil, log.Err("failed to list active logs for branch", err, "branchID", branchID)
	}

	return &QRCheckResult{
		Branch:     branch,
		Templates:  templates,
		ActiveLogs: activeLogs,
	}, nil
}

// StartLog creates a log in IN_PROGRESS with the checklist snapshot the
// template resolver produced. Only technicians start logs; the QR gate has
// already vouched for the branch.
func (c *MaintenanceController) StartLog(
	ctx context.Context,
	principal Principal,
	request *StartLogRequest,
) (*MaintenanceLog, error) {
	log := c.log.Function("StartLog")

	if !principal.Role.IsTechnician() {
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"only technicians start logs", "role", principal.Role)
	}

	branch, err := c.branchRepo.GetByID(ctx, request.BranchID)
	if err != nil {
		return nil, log.Err("failed to load branch", err, "branchID", request.BranchID)
	}

	checklist, err := c.checklist.Resolve(ctx, request.TemplateID)
	if err != nil {
		return nil, log.Err("failed to resolve checklist", err, "branchID", branch.ID)
	}

	items := make([]ChecklistItem, len(checklist.Questions))
	for i, question := range checklist.Questions {
		items[i] = ChecklistItem{Question: question}
	}

	maintenanceLog := &MaintenanceLog{
		BranchID:       branch.ID,
		StaffID:        principal.UserID,
		Status:         StatusInProgress,
		Instructions:   checklist.Instructions,
		ChecklistItems: items,
	}

	if err := c.logRepo.Create(ctx, maintenanceLog); err != nil {
		return nil, log.Err("failed to create maintenance log", err, "branchID", branch.ID)
	}

	return c.logRepo.GetByID(ctx, maintenanceLog.ID)
}

func (c *MaintenanceController) GetLog(
	ctx context.Context,
	principal Principal,
	logID uuid.UUID,
) (*MaintenanceLog, error) {
	log := c.log.Function("GetLog")

	maintenanceLog, _, err := c.loadAuthorized(ctx, principal, logID)
	if err != nil {
		return nil, log.Err("failed to load log", err, "logID", logID)
	}

	return maintenanceLog, nil
}

// UpdateLog applies one mutation batch: an optional status transition plus
// notes, checklist item, photo, and archive-flag edits. Scope is checked
// before anything is written, and the whole batch commits or rolls back as
// one unit.
func (c *MaintenanceController) UpdateLog(
	ctx context.Context,
	principal Principal,
	logID uuid.UUID,
	request *UpdateLogRequest,
) (*MaintenanceLog, error) {
	log := c.log.Function("UpdateLog")

	maintenanceLog, _, err := c.loadAuthorized(ctx, principal, logID)
	if err != nil {
		return nil, log.Err("failed to load log for update", err, "logID", logID)
	}

	if err := c.validateUpdate(principal, maintenanceLog, request); err != nil {
		return nil, err
	}

	err = c.transactor.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, item := range request.ChecklistItems {
			if err := c.logRepo.UpdateChecklistItem(
				ctx, tx, maintenanceLog.ID, item.ID, item.IsChecked, item.Note,
			); err != nil {
				return err
			}
		}

		if len(request.NewPhotoURLs) > 0 {
			if err := c.logRepo.AppendPhotos(
				ctx, tx, maintenanceLog.ID, request.NewPhotoURLs,
			); err != nil {
				return err
			}
		}

		if request.Notes != nil {
			maintenanceLog.Notes = *request.Notes
		}
		if request.IsArchived != nil {
			maintenanceLog.IsArchived = *request.IsArchived
		}
		if request.Status != nil {
			applyTransition(maintenanceLog, *request.Status, time.Now())
		}

		return c.logRepo.Save(ctx, tx, maintenanceLog)
	})
	if err != nil {
		return nil, log.Err("failed to apply log update", err, "logID", logID)
	}

	return c.logRepo.GetByID(ctx, maintenanceLog.ID)
}

// validateUpdate runs every permission check before the first write.
func (c *MaintenanceController) validateUpdate(
	principal Principal,
	maintenanceLog *MaintenanceLog,
	request *UpdateLogRequest,
) error {
	if request.Status != nil {
		if err := validateTransition(principal, maintenanceLog, *request.Status); err != nil {
			return err
		}
	}

	if request.IsArchived != nil && principal.Role != RoleSuperAdmin {
		return fmt.Errorf("%w: only an administrator may set the archive flag",
			apperrors.ErrAccessDenied)
	}

	editsFields := request.Notes != nil ||
		len(request.ChecklistItems) > 0 ||
		len(request.NewPhotoURLs) > 0
	if editsFields && !canEditFields(principal, maintenanceLog) {
		return fmt.Errorf("%w: log is not editable in status %s",
			apperrors.ErrAccessDenied, maintenanceLog.Status)
	}

	return nil
}

func (c *MaintenanceController) ListLogs(
	ctx context.Context,
	principal Principal,
	request *ListLogsRequest,
) ([]MaintenanceLog, error) {
	log := c.log.Function("ListLogs")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	logs, err := c.logRepo.List(ctx, scope.Logs, request.Status, request.Limit)
	if err != nil {
		return nil, log.Err("failed to list logs", err, "userID", principal.UserID)
	}

	return logs, nil
}

func (c *MaintenanceController) ListLogsForBranch(
	ctx context.Context,
	principal Principal,
	branchID uuid.UUID,
) ([]MaintenanceLog, error) {
	log := c.log.Function("ListLogsForBranch")

	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, log.Err("failed to resolve scope", err, "userID", principal.UserID)
	}

	branch, err := c.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, log.Err("failed to load branch", err, "branchID", branchID)
	}

	if !scope.Branches.Allows(branch) {
		return nil, log.ErrorWithType(apperrors.ErrAccessDenied,
			"branch outside principal scope", "branchID", branchID)
	}

	return c.logRepo.ListForBranch(ctx, branchID)
}

// ListMyOpenLogs is the technician work list: the caller's own logs still
// needing attention.
func (c *MaintenanceController) ListMyOpenLogs(
	ctx context.Context,
	principal Principal,
) ([]MaintenanceLog, error) {
	log := c.log.Function("ListMyOpenLogs")

	if principal.UserID == uuid.Nil {
		return nil, log.ErrorWithType(apperrors.ErrUnauthenticated, "no principal on request")
	}

	return c.logRepo.ListOpenForStaff(ctx, principal.UserID)
}

// loadAuthorized fetches the log and verifies it sits inside the
// principal's resolved scope before any caller acts on it.
func (c *MaintenanceController) loadAuthorized(
	ctx context.Context,
	principal Principal,
	logID uuid.UUID,
) (*MaintenanceLog, *Scope, error) {
	scope, err := c.scope.Resolve(ctx, principal)
	if err != nil {
		return nil, nil, err
	}

	maintenanceLog, err := c.logRepo.GetByID(ctx, logID)
	if err != nil {
		return nil, nil, err
	}

	if !scope.Logs.Allows(maintenanceLog) {
		return nil, nil, fmt.Errorf("%w: log outside principal scope", apperrors.ErrAccessDenied)
	}

	return maintenanceLog, scope, nil
}
