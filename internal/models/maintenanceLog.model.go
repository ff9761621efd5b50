package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of maintenance log states.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusNeedsVisit      Status = "NEEDS_VISIT"
	StatusIncomplete      Status = "INCOMPLETE"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusCompleted       Status = "COMPLETED"
	StatusRejected        Status = "REJECTED"
	StatusCancelled       Status = "CANCELLED"
	StatusArchived        Status = "ARCHIVED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusNeedsVisit, StatusIncomplete,
		StatusPendingApproval, StatusApproved, StatusCompleted,
		StatusRejected, StatusCancelled, StatusArchived:
		return true
	}
	return false
}

// IsOpen reports whether the status is workable by the owning staff.
// REJECTED is open: rejection returns the log to the staff for rework.
func (s Status) IsOpen() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusNeedsVisit, StatusIncomplete,
		StatusPendingApproval, StatusRejected:
		return true
	}
	return false
}

// IsReviewable reports whether an approver may act on the status.
func (s Status) IsReviewable() bool {
	return s == StatusPendingApproval || s == StatusCompleted
}

// ActiveStatuses are the states the QR gate reports as resumable so a
// technician can continue an open log instead of starting a duplicate.
var ActiveStatuses = []Status{
	StatusInProgress,
	StatusNeedsVisit,
	StatusIncomplete,
	StatusPendingApproval,
	StatusPending,
}

type MaintenanceLog struct {
	BaseUUIDModel
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branchId"`
	Branch   *Branch   `gorm:"foreignKey:BranchID"      json:"branch,omitempty"`
	StaffID  uuid.UUID `gorm:"type:uuid;not null;index" json:"staffId"`
	Staff    *User     `gorm:"foreignKey:StaffID"       json:"staff,omitempty"`

	Status Status `gorm:"type:text;not null" json:"status"`
	Notes  string `gorm:"type:text"          json:"notes"`

	// Instructions is a snapshot copied from the template at creation.
	// Later template edits never affect existing logs.
	Instructions *string `gorm:"type:text" json:"instructions"`

	IsArchived  bool       `gorm:"not null;default:false" json:"isArchived"`
	Date        time.Time  `gorm:"autoCreateTime"         json:"date"`
	CompletedAt *time.Time `gorm:"type:timestamp"         json:"completedAt"`

	ChecklistItems []ChecklistItem `gorm:"foreignKey:LogID" json:"checklistItems,omitempty"`
	Photos         []Photo         `gorm:"foreignKey:LogID" json:"photos,omitempty"`
}

// IsOwnedBy reports whether the log is attributed to the given user.
func (l *MaintenanceLog) IsOwnedBy(userID uuid.UUID) bool {
	return l.StaffID == userID
}

type ChecklistItem struct {
	BaseUUIDModel
	LogID     uuid.UUID `gorm:"type:uuid;not null;index" json:"logId"`
	Question  string    `gorm:"type:text;not null"       json:"question"`
	IsChecked bool      `gorm:"not null;default:false"   json:"isChecked"`
	Note      *string   `gorm:"type:text"                json:"note"`
}

// Photo records are append-only: added while the log is editable, never
// removed or replaced.
type Photo struct {
	BaseUUIDModel
	LogID uuid.UUID `gorm:"type:uuid;not null;index" json:"logId"`
	URL   string    `gorm:"type:text;not null"       json:"url"`
}
