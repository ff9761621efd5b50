package maintenanceController

import (
	"errors"
	"testing"
	"time"

	"bakimtrack/internal/apperrors"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(staffID uuid.UUID, status Status) *MaintenanceLog {
	log := &MaintenanceLog{
		StaffID: staffID,
		Status:  status,
		Date:    time.Now().Add(-time.Hour),
	}
	log.ID = uuid.Must(uuid.NewV7())
	return log
}

func TestValidateTransition_FieldStaff(t *testing.T) {
	staffID := uuid.Must(uuid.NewV7())
	principal := Principal{UserID: staffID, Role: RoleFieldStaff}

	testCases := []struct {
		name    string
		log     *MaintenanceLog
		target  Status
		wantErr error
	}{
		{
			name:   "save and continue",
			log:    newTestLog(staffID, StatusInProgress),
			target: StatusInProgress,
		},
		{
			name:   "submit for approval",
			log:    newTestLog(staffID, StatusInProgress),
			target: StatusPendingApproval,
		},
		{
			name:   "flag needs visit",
			log:    newTestLog(staffID, StatusInProgress),
			target: StatusNeedsVisit,
		},
		{
			name:   "cancel own log",
			log:    newTestLog(staffID, StatusIncomplete),
			target: StatusCancelled,
		},
		{
			name:   "rework after rejection",
			log:    newTestLog(staffID, StatusRejected),
			target: StatusInProgress,
		},
		{
			name:    "cannot approve own log",
			log:     newTestLog(staffID, StatusPendingApproval),
			target:  StatusApproved,
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "cannot set completed directly",
			log:     newTestLog(staffID, StatusInProgress),
			target:  StatusCompleted,
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "cannot touch another staff member's log",
			log:     newTestLog(uuid.Must(uuid.NewV7()), StatusInProgress),
			target:  StatusInProgress,
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:    "cannot reopen approved log",
			log:     newTestLog(staffID, StatusApproved),
			target:  StatusInProgress,
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "unknown status rejected",
			log:     newTestLog(staffID, StatusInProgress),
			target:  Status("SOMETHING_ELSE"),
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTransition(principal, tc.log, tc.target)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTransition_ArchivedLogIsFrozen(t *testing.T) {
	staffID := uuid.Must(uuid.NewV7())
	log := newTestLog(staffID, StatusInProgress)
	log.IsArchived = true

	err := validateTransition(Principal{UserID: staffID, Role: RoleFieldStaff}, log, StatusInProgress)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	err = validateTransition(Principal{UserID: staffID, Role: RoleBranchManager}, log, StatusApproved)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	// Administrative override ignores the archive flag.
	err = validateTransition(Principal{UserID: staffID, Role: RoleSuperAdmin}, log, StatusInProgress)
	assert.NoError(t, err)
}

func TestValidateTransition_Approvers(t *testing.T) {
	staffID := uuid.Must(uuid.NewV7())

	for _, role := range []Role{RoleProjectManager, RoleBranchManager} {
		t.Run(string(role), func(t *testing.T) {
			principal := Principal{UserID: uuid.Must(uuid.NewV7()), Role: role}

			assert.NoError(t,
				validateTransition(principal, newTestLog(staffID, StatusPendingApproval), StatusApproved))
			assert.NoError(t,
				validateTransition(principal, newTestLog(staffID, StatusPendingApproval), StatusRejected))
			assert.NoError(t,
				validateTransition(principal, newTestLog(staffID, StatusCompleted), StatusApproved))

			err := validateTransition(principal, newTestLog(staffID, StatusInProgress), StatusApproved)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

			err = validateTransition(principal, newTestLog(staffID, StatusPendingApproval), StatusCancelled)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
		})
	}
}

func TestValidateTransition_SuperAdminOverride(t *testing.T) {
	principal := Principal{UserID: uuid.Must(uuid.NewV7()), Role: RoleSuperAdmin}
	staffID := uuid.Must(uuid.NewV7())

	// PENDING and ARCHIVED are unreachable in the normal flow but valid
	// override targets.
	for _, target := range []Status{
		StatusPending, StatusArchived, StatusCompleted, StatusCancelled, StatusApproved,
	} {
		assert.NoError(t,
			validateTransition(principal, newTestLog(staffID, StatusApproved), target),
			"target %s", target)
	}

	err := validateTransition(principal, newTestLog(staffID, StatusApproved), Status("BOGUS"))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestApplyTransition_SideEffects(t *testing.T) {
	staffID := uuid.Must(uuid.NewV7())
	now := time.Now()

	t.Run("cancellation always archives", func(t *testing.T) {
		log := newTestLog(staffID, StatusInProgress)
		applyTransition(log, StatusCancelled, now)

		assert.Equal(t, StatusCancelled, log.Status)
		assert.True(t, log.IsArchived)
		assert.Nil(t, log.CompletedAt)
	})

	t.Run("completion stamps completedAt", func(t *testing.T) {
		log := newTestLog(staffID, StatusPendingApproval)
		applyTransition(log, StatusApproved, now)

		require.NotNil(t, log.CompletedAt)
		assert.Equal(t, now, *log.CompletedAt)
		assert.True(t, !log.CompletedAt.Before(log.Date))
	})

	t.Run("completedAt refreshed on re-entry", func(t *testing.T) {
		log := newTestLog(staffID, StatusApproved)
		earlier := now.Add(-30 * time.Minute)
		log.CompletedAt = &earlier

		applyTransition(log, StatusCompleted, now)

		require.NotNil(t, log.CompletedAt)
		assert.Equal(t, now, *log.CompletedAt)
	})

	t.Run("save and continue has no side effect", func(t *testing.T) {
		log := newTestLog(staffID, StatusInProgress)
		applyTransition(log, StatusInProgress, now)

		assert.False(t, log.IsArchived)
		assert.Nil(t, log.CompletedAt)
	})
}

func TestCanEditFields(t *testing.T) {
	staffID := uuid.Must(uuid.NewV7())
	otherID := uuid.Must(uuid.NewV7())

	testCases := []struct {
		name      string
		principal Principal
		log       *MaintenanceLog
		want      bool
	}{
		{
			name:      "owner edits open log",
			principal: Principal{UserID: staffID, Role: RoleFieldStaff},
			log:       newTestLog(staffID, StatusInProgress),
			want:      true,
		},
		{
			name:      "owner edits rejected log",
			principal: Principal{UserID: staffID, Role: RoleFieldStaff},
			log:       newTestLog(staffID, StatusRejected),
			want:      true,
		},
		{
			name:      "non-owner staff cannot edit",
			principal: Principal{UserID: otherID, Role: RoleFieldStaff},
			log:       newTestLog(staffID, StatusInProgress),
			want:      false,
		},
		{
			name:      "owner cannot edit approved log",
			principal: Principal{UserID: staffID, Role: RoleFieldStaff},
			log:       newTestLog(staffID, StatusApproved),
			want:      false,
		},
		{
			name:      "approver edits reviewable log",
			principal: Principal{UserID: otherID, Role: RoleBranchManager},
			log:       newTestLog(staffID, StatusPendingApproval),
			want:      true,
		},
		{
			name:      "approver cannot edit in-progress log",
			principal: Principal{UserID: otherID, Role: RoleProjectManager},
			log:       newTestLog(staffID, StatusInProgress),
			want:      false,
		},
		{
			name:      "admin edits anything",
			principal: Principal{UserID: otherID, Role: RoleSuperAdmin},
			log:       newTestLog(staffID, StatusArchived),
			want:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, canEditFields(tc.principal, tc.log))
		})
	}

	t.Run("archive flag freezes non-admin edits", func(t *testing.T) {
		log := newTestLog(staffID, StatusInProgress)
		log.IsArchived = true

		assert.False(t, canEditFields(Principal{UserID: staffID, Role: RoleFieldStaff}, log))
		assert.True(t, canEditFields(Principal{UserID: otherID, Role: RoleSuperAdmin}, log))
	})
}
