package repositories

import (
	"context"

	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	List(ctx context.Context, filter BranchFilter) ([]Branch, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]Branch, error)
	Count(ctx context.Context, filter BranchFilter) (int64, error)
	CountForClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	Create(ctx context.Context, branch *Branch) error
	Update(ctx context.Context, branch *Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type branchRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBranchRepository(db database.DB) BranchRepository {
	return &branchRepository{
		db:  db,
		log: logger.New("branchRepository"),
	}
}

// GetByID loads the branch with its owning client, which the QR gate and
// scope checks both need.
func (r *branchRepository) GetByID(ctx context.Context, id uuid.UUID) (*Branch, error) {
	log := r.log.Function("GetByID")

	var branch Branch
	if err := r.db.SQLWithContext(ctx).
		Preload("Client").
		First(&branch, "id = ?", id).Error; err != nil {
		return nil, dbError(log, err, "failed to get branch by id", "id", id)
	}

	return &branch, nil
}

func (r *branchRepository) List(ctx context.Context, filter BranchFilter) ([]Branch, error) {
	log := r.log.Function("List")

	if filter.MatchesNone() {
		return []Branch{}, nil
	}

	var branches []Branch
	query := r.applyFilter(r.db.SQLWithContext(ctx), filter)
	if err := query.
		Preload("Client").
		Order("created_at DESC").
		Find(&branches).Error; err != nil {
		return nil, dbError(log, err, "failed to list branches")
	}

	return branches, nil
}

func (r *branchRepository) ListForClient(
	ctx context.Context,
	clientID uuid.UUID,
) ([]Branch, error) {
	log := r.log.Function("ListForClient")

	var branches []Branch
	if err := r.db.SQLWithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&branches).Error; err != nil {
		return nil, dbError(log, err, "failed to list branches for client", "clientID", clientID)
	}

	return branches, nil
}

func (r *branchRepository) Count(ctx context.Context, filter BranchFilter) (int64, error) {
	log := r.log.Function("Count")

	if filter.MatchesNone() {
		return 0, nil
	}

	var count int64
	query := r.applyFilter(r.db.SQLWithContext(ctx).Model(&Branch{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, dbError(log, err, "failed to count branches")
	}

	return count, nil
}

func (r *branchRepository) CountForClient(
	ctx context.Context,
	clientID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountForClient")

	var count int64
	if err := r.db.SQLWithContext(ctx).
		Model(&Branch{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, dbError(log, err, "failed to count branches for client", "clientID", clientID)
	}

	return count, nil
}

func (r *branchRepository) applyFilter(query *gorm.DB, filter BranchFilter) *gorm.DB {
	switch {
	case filter.Unrestricted:
		return query
	case len(filter.IDs) > 0:
		return query.Where("id IN ?", filter.IDs)
	default:
		return query.Where("client_id IN ?", filter.ClientIDs)
	}
}

func (r *branchRepository) Create(ctx context.Context, branch *Branch) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(branch).Error; err != nil {
		return dbError(log, err, "failed to create branch", "name", branch.Name)
	}

	return nil
}

// Update persists name and address changes. The QR code is immutable: it is
// excluded from the update statement entirely.
func (r *branchRepository) Update(ctx context.Context, branch *Branch) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).
		Model(branch).
		Select("name", "address").
		Updates(map[string]any{
			"name":    branch.Name,
			"address": branch.Address,
		}).Error; err != nil {
		return dbError(log, err, "failed to update branch", "branchID", branch.ID)
	}

	return nil
}

func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Branch{}, "id = ?", id).Error; err != nil {
		return dbError(log, err, "failed to delete branch", "branchID", id)
	}

	return nil
}
