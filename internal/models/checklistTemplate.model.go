package models

import (
	"fmt"

	"bakimtrack/internal/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChecklistTemplate is a reusable checklist definition, either global or
// scoped to exactly one client. Items is an ordered list of question
// strings stored as a JSON column.
type ChecklistTemplate struct {
	BaseUUIDModel
	Name         string                        `gorm:"type:text;not null" json:"name"`
	Items        datatypes.JSONSlice[string]   `gorm:"type:jsonb"         json:"items"`
	Instructions *string                       `gorm:"type:text"          json:"instructions"`
	IsGlobal     bool                          `gorm:"not null;default:false" json:"isGlobal"`
	ClientID     *uuid.UUID                    `gorm:"type:uuid;index"    json:"clientId"`
	Client       *Client                       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// Validate enforces the scoping invariant: a global template carries no
// client, a client template always carries one.
func (t *ChecklistTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: template name is required", apperrors.ErrValidation)
	}
	if t.IsGlobal && t.ClientID != nil {
		return fmt.Errorf("%w: global template must not reference a client", apperrors.ErrValidation)
	}
	if !t.IsGlobal && t.ClientID == nil {
		return fmt.Errorf("%w: client template requires a client", apperrors.ErrValidation)
	}
	return nil
}
