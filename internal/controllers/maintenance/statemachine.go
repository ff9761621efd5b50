package maintenanceController

import (
	"fmt"
	"time"

	"bakimtrack/internal/apperrors"
	. "bakimtrack/internal/models"
)

// technicianTargets are the states the owning staff may move a log into
// from any open state.
var technicianTargets = map[Status]bool{
	StatusInProgress:      true,
	StatusNeedsVisit:      true,
	StatusIncomplete:      true,
	StatusPendingApproval: true,
	StatusCancelled:       true,
}

// approverTargets are the verdicts an approver may hand down on a
// reviewable log.
var approverTargets = map[Status]bool{
	StatusApproved: true,
	StatusRejected: true,
}

// validateTransition decides whether the principal may move the log into
// the target status. SUPER_ADMIN bypasses every rule and may force-set any
// valid status, including PENDING and ARCHIVED, which are unreachable
// through the normal flow.
func validateTransition(principal Principal, log *MaintenanceLog, target Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, target)
	}

	switch principal.Role {
	case RoleSuperAdmin:
		return nil

	case RoleFieldStaff:
		if !log.IsOwnedBy(principal.UserID) {
			return fmt.Errorf("%w: log belongs to another staff member", apperrors.ErrAccessDenied)
		}
		if log.IsArchived {
			return fmt.Errorf("%w: log is archived", apperrors.ErrInvalidTransition)
		}
		if !log.Status.IsOpen() {
			return fmt.Errorf("%w: %s is not open for staff work",
				apperrors.ErrInvalidTransition, log.Status)
		}
		if !technicianTargets[target] {
			return fmt.Errorf("%w: staff may not set %s",
				apperrors.ErrInvalidTransition, target)
		}
		return nil

	case RoleProjectManager, RoleBranchManager:
		if log.IsArchived {
			return fmt.Errorf("%w: log is archived", apperrors.ErrInvalidTransition)
		}
		if !log.Status.IsReviewable() {
			return fmt.Errorf("%w: %s is not awaiting review",
				apperrors.ErrInvalidTransition, log.Status)
		}
		if !approverTargets[target] {
			return fmt.Errorf("%w: approvers may only approve or reject",
				apperrors.ErrInvalidTransition)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, principal.Role)
	}
}

// applyTransition mutates the log's status and its mandatory side effects.
// Entering COMPLETED or APPROVED always refreshes completedAt, not only the
// first time. Cancellation is terminal and always archives.
func applyTransition(log *MaintenanceLog, target Status, now time.Time) {
	log.Status = target

	switch target {
	case StatusCompleted, StatusApproved:
		log.CompletedAt = &now
	case StatusCancelled:
		log.IsArchived = true
	}
}

// canEditFields reports whether the principal may mutate the log's notes,
// checklist items, and photos in its current state. Evaluated against the
// state before any transition in the same request is applied.
func canEditFields(principal Principal, log *MaintenanceLog) bool {
	if principal.Role == RoleSuperAdmin {
		return true
	}
	if log.IsArchived {
		return false
	}

	switch principal.Role {
	case RoleFieldStaff:
		return log.IsOwnedBy(principal.UserID) && log.Status.IsOpen()
	case RoleProjectManager, RoleBranchManager:
		return log.Status.IsReviewable()
	}
	return false
}
