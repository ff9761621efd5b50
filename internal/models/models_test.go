package models

import (
	"testing"

	"bakimtrack/internal/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantRole  Role
		wantError bool
	}{
		{name: "super admin", raw: "SUPER_ADMIN", wantRole: RoleSuperAdmin},
		{name: "project manager", raw: "PROJECT_MANAGER", wantRole: RoleProjectManager},
		{name: "branch manager", raw: "BRANCH_MANAGER", wantRole: RoleBranchManager},
		{name: "field staff", raw: "FIELD_STAFF", wantRole: RoleFieldStaff},
		{name: "unknown role", raw: "ADMIN", wantError: true},
		{name: "lowercase is rejected", raw: "super_admin", wantError: true},
		{name: "empty", raw: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseRole(tt.raw)
			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, role)
			}
		})
	}
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleProjectManager.IsApprover())
	assert.True(t, RoleBranchManager.IsApprover())
	assert.False(t, RoleSuperAdmin.IsApprover())
	assert.False(t, RoleFieldStaff.IsApprover())

	assert.True(t, RoleFieldStaff.IsTechnician())
	assert.True(t, RoleSuperAdmin.IsTechnician())
	assert.False(t, RoleBranchManager.IsTechnician())
}

func TestChecklistTemplateValidate(t *testing.T) {
	clientID := uuid.New()

	tests := []struct {
		name      string
		template  ChecklistTemplate
		wantError bool
	}{
		{
			name:     "valid global template",
			template: ChecklistTemplate{Name: "Standart Bakım", IsGlobal: true},
		},
		{
			name:     "valid client template",
			template: ChecklistTemplate{Name: "Acme Bakım", ClientID: &clientID},
		},
		{
			name:      "global with client is rejected",
			template:  ChecklistTemplate{Name: "Bad", IsGlobal: true, ClientID: &clientID},
			wantError: true,
		},
		{
			name:      "non-global without client is rejected",
			template:  ChecklistTemplate{Name: "Bad"},
			wantError: true,
		},
		{
			name:      "missing name is rejected",
			template:  ChecklistTemplate{IsGlobal: true},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.template.Validate()
			if tt.wantError {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusSets(t *testing.T) {
	open := []Status{
		StatusPending, StatusInProgress, StatusNeedsVisit,
		StatusIncomplete, StatusPendingApproval, StatusRejected,
	}
	for _, s := range open {
		assert.True(t, s.IsOpen(), "expected %s to be open", s)
	}

	closed := []Status{StatusApproved, StatusCompleted, StatusCancelled, StatusArchived}
	for _, s := range closed {
		assert.False(t, s.IsOpen(), "expected %s to be closed", s)
	}

	assert.True(t, StatusPendingApproval.IsReviewable())
	assert.True(t, StatusCompleted.IsReviewable())
	assert.False(t, StatusInProgress.IsReviewable())

	assert.False(t, Status("DONE").Valid())
}

func TestNewQRCodeIsOpaqueAndUnique(t *testing.T) {
	a := NewQRCode()
	b := NewQRCode()

	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}
