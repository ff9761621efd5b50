package repositories

import (
	"errors"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"

	"gorm.io/gorm"
)

type Repository struct {
	User     UserRepository
	Client   ClientRepository
	Branch   BranchRepository
	Template ChecklistTemplateRepository
	Log      MaintenanceLogRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:     NewUserRepository(db), // user repo needs cache for session lookups
		Client:   NewClientRepository(db),
		Branch:   NewBranchRepository(db),
		Template: NewChecklistTemplateRepository(db),
		Log:      NewMaintenanceLogRepository(db),
	}
}

// dbError maps a GORM error onto the shared taxonomy: record-not-found
// becomes ErrNotFound, anything else is a store failure. Store failures are
// never reported as empty results.
func dbError(log logger.Logger, err error, msg string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return log.ErrorWithType(apperrors.ErrNotFound, msg, args...)
	}
	return log.ErrorWithType(apperrors.ErrStoreUnavailable, msg, append(args, "error", err)...)
}
