package repositories

import (
	"context"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaintenanceLogRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*MaintenanceLog, error)
	List(ctx context.Context, filter LogFilter, status *Status, limit int) ([]MaintenanceLog, error)
	ListForBranch(ctx context.Context, branchID uuid.UUID) ([]MaintenanceLog, error)
	ListActiveForBranch(ctx context.Context, branchID uuid.UUID) ([]MaintenanceLog, error)
	ListOpenForStaff(ctx context.Context, staffID uuid.UUID) ([]MaintenanceLog, error)
	Count(ctx context.Context, filter LogFilter, status *Status) (int64, error)
	ListPhotoURLs(ctx context.Context) ([]string, error)
	Create(ctx context.Context, log *MaintenanceLog) error

	// Transaction-scoped mutations. A single log's status transition and
	// its field mutations are applied through one tx handle so they become
	// visible together or not at all.
	Save(ctx context.Context, tx *gorm.DB, log *MaintenanceLog) error
	UpdateChecklistItem(
		ctx context.Context,
		tx *gorm.DB,
		logID, itemID uuid.UUID,
		isChecked bool,
		note *string,
	) error
	AppendPhotos(ctx context.Context, tx *gorm.DB, logID uuid.UUID, urls []string) error
}

type maintenanceLogRepository struct {
	db  database.DB
	log logger.Logger
}

func NewMaintenanceLogRepository(db database.DB) MaintenanceLogRepository {
	return &maintenanceLogRepository{
		db:  db,
		log: logger.New("maintenanceLogRepository"),
	}
}

// GetByID loads the log with everything its access check and response need:
// branch (with client), staff, checklist items, photos.
func (r *maintenanceLogRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*MaintenanceLog, error) {
	log := r.log.Function("GetByID")

	var maintenanceLog MaintenanceLog
	if err := r.db.SQLWithContext(ctx).
		Preload("Branch").
		Preload("Branch.Client").
		Preload("Staff").
		Preload("ChecklistItems").
		Preload("Photos").
		First(&maintenanceLog, "id = ?", id).Error; err != nil {
		return nil, dbError(log, err, "failed to get maintenance log by id", "id", id)
	}

	return &maintenanceLog, nil
}

func (r *maintenanceLogRepository) List(
	ctx context.Context,
	filter LogFilter,
	status *Status,
	limit int,
) ([]MaintenanceLog, error) {
	log := r.log.Function("List")

	if filter.MatchesNone() {
		return []MaintenanceLog{}, nil
	}

	query := r.applyFilter(r.db.SQLWithContext(ctx), filter)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []MaintenanceLog
	if err := query.
		Preload("Branch").
		Preload("Branch.Client").
		Preload("Staff").
		Order("date DESC").
		Find(&logs).Error; err != nil {
		return nil, dbError(log, err, "failed to list maintenance logs")
	}

	return logs, nil
}

func (r *maintenanceLogRepository) ListForBranch(
	ctx context.Context,
	branchID uuid.UUID,
) ([]MaintenanceLog, error) {
	log := r.log.Function("ListForBranch")

	var logs []MaintenanceLog
	if err := r.db.SQLWithContext(ctx).
		Where("branch_id = ?", branchID).
		Preload("Staff").
		Preload("ChecklistItems").
		Preload("Photos").
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, dbError(log, err, "failed to list logs for branch", "branchID", branchID)
	}

	return logs, nil
}

// ListActiveForBranch returns the branch's open unarchived logs so the QR
// gate can offer resuming instead of starting a duplicate.
func (r *maintenanceLogRepository) ListActiveForBranch(
	ctx context.Context,
	branchID uuid.UUID,
) ([]MaintenanceLog, error) {
	log := r.log.Function("ListActiveForBranch")

	var logs []MaintenanceLog
	if err := r.db.SQLWithContext(ctx).
		Where("branch_id = ? AND status IN ? AND is_archived = ?",
			branchID, ActiveStatuses, false).
		Preload("Staff").
		Order("updated_at DESC").
		Find(&logs).Error; err != nil {
		return nil, dbError(log, err, "failed to list active logs for branch", "branchID", branchID)
	}

	return logs, nil
}

// ListOpenForStaff is the technician work list: the staff member's own
// unarchived logs in every status except the terminal cancelled/archived
// pair, most recently touched first.
func (r *maintenanceLogRepository) ListOpenForStaff(
	ctx context.Context,
	staffID uuid.UUID,
) ([]MaintenanceLog, error) {
	log := r.log.Function("ListOpenForStaff")

	statuses := []Status{
		StatusPending, StatusInProgress, StatusNeedsVisit, StatusIncomplete,
		StatusPendingApproval, StatusApproved, StatusRejected,
	}

	var logs []MaintenanceLog
	if err := r.db.SQLWithContext(ctx).
		Where("staff_id = ? AND status IN ? AND is_archived = ?", staffID, statuses, false).
		Preload("Branch").
		Preload("Branch.Client").
		Preload("ChecklistItems").
		Preload("Photos").
		Order("updated_at DESC").
		Find(&logs).Error; err != nil {
		return nil, dbError(log, err, "failed to list open logs for staff", "staffID", staffID)
	}

	return logs, nil
}

func (r *maintenanceLogRepository) Count(
	ctx context.Context,
	filter LogFilter,
	status *Status,
) (int64, error) {
	log := r.log.Function("Count")

	if filter.MatchesNone() {
		return 0, nil
	}

	query := r.applyFilter(r.db.SQLWithContext(ctx).Model(&MaintenanceLog{}), filter)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, dbError(log, err, "failed to count maintenance logs")
	}

	return count, nil
}

func (r *maintenanceLogRepository) applyFilter(query *gorm.DB, filter LogFilter) *gorm.DB {
	switch {
	case filter.Unrestricted:
		return query
	case filter.StaffID != nil:
		return query.Where("staff_id = ?", *filter.StaffID)
	case len(filter.BranchIDs) > 0:
		return query.Where("branch_id IN ?", filter.BranchIDs)
	default:
		return query.Where(
			"branch_id IN (SELECT id FROM branches WHERE client_id IN ?)",
			filter.BranchClientIDs,
		)
	}
}

func (r *maintenanceLogRepository) ListPhotoURLs(ctx context.Context) ([]string, error) {
	log := r.log.Function("ListPhotoURLs")

	var urls []string
	if err := r.db.SQLWithContext(ctx).
		Model(&Photo{}).
		Pluck("url", &urls).Error; err != nil {
		return nil, dbError(log, err, "failed to list photo urls")
	}

	return urls, nil
}

// Create persists the log together with its checklist item snapshot.
func (r *maintenanceLogRepository) Create(ctx context.Context, log *MaintenanceLog) error {
	logEntry := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(log).Error; err != nil {
		return dbError(logEntry, err, "failed to create maintenance log", "branchID", log.BranchID)
	}

	return nil
}

func (r *maintenanceLogRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	log *MaintenanceLog,
) error {
	logEntry := r.log.Function("Save")

	if err := tx.WithContext(ctx).
		Omit("Branch", "Staff", "ChecklistItems", "Photos").
		Save(log).Error; err != nil {
		return dbError(logEntry, err, "failed to save maintenance log", "logID", log.ID)
	}

	return nil
}

// UpdateChecklistItem updates a single item, refusing to touch an item that
// does not belong to the log. A zero-row update is a NotFound, never a
// silent no-op.
func (r *maintenanceLogRepository) UpdateChecklistItem(
	ctx context.Context,
	tx *gorm.DB,
	logID, itemID uuid.UUID,
	isChecked bool,
	note *string,
) error {
	logEntry := r.log.Function("UpdateChecklistItem")

	result := tx.WithContext(ctx).
		Model(&ChecklistItem{}).
		Where("id = ? AND log_id = ?", itemID, logID).
		Updates(map[string]any{
			"is_checked": isChecked,
			"note":       note,
		})
	if result.Error != nil {
		return dbError(logEntry, result.Error, "failed to update checklist item",
			"logID", logID, "itemID", itemID)
	}

	if result.RowsAffected == 0 {
		return logEntry.ErrorWithType(apperrors.ErrNotFound,
			"checklist item does not belong to log", "logID", logID, "itemID", itemID)
	}

	return nil
}

func (r *maintenanceLogRepository) AppendPhotos(
	ctx context.Context,
	tx *gorm.DB,
	logID uuid.UUID,
	urls []string,
) error {
	logEntry := r.log.Function("AppendPhotos")

	photos := make([]Photo, len(urls))
	for i, url := range urls {
		photos[i] = Photo{LogID: logID, URL: url}
	}

	if err := tx.WithContext(ctx).Create(&photos).Error; err != nil {
		return dbError(logEntry, err, "failed to append photos", "logID", logID)
	}

	return nil
}
