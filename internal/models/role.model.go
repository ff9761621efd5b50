package models

import (
	"fmt"

	"bakimtrack/internal/apperrors"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. There are no per-user permission
// overrides; every capability is derived from the role plus the user's
// client/branch assignments.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleBranchManager  Role = "BRANCH_MANAGER"
	RoleFieldStaff     Role = "FIELD_STAFF"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleProjectManager, RoleBranchManager, RoleFieldStaff:
		return true
	}
	return false
}

// IsApprover reports whether the role may approve or reject logs awaiting
// review.
func (r Role) IsApprover() bool {
	return r == RoleProjectManager || r == RoleBranchManager
}

// IsTechnician reports whether the role may scan a QR code and work a log.
func (r Role) IsTechnician() bool {
	return r == RoleFieldStaff || r == RoleSuperAdmin
}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, raw)
	}
	return role, nil
}

// Principal is the authenticated actor an operation executes on behalf of.
// It is passed explicitly into every core operation; there is no ambient
// session state.
type Principal struct {
	UserID uuid.UUID `json:"userId"`
	Role   Role      `json:"role"`
}
