package repositories

import (
	"context"

	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
)

type ChecklistTemplateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ChecklistTemplate, error)
	ListAll(ctx context.Context) ([]ChecklistTemplate, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]ChecklistTemplate, error)
	Create(ctx context.Context, template *ChecklistTemplate) error
	Update(ctx context.Context, template *ChecklistTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type checklistTemplateRepository struct {
	db  database.DB
	log logger.Logger
}

func NewChecklistTemplateRepository(db database.DB) ChecklistTemplateRepository {
	return &checklistTemplateRepository{
		db:  db,
		log: logger.New("checklistTemplateRepository"),
	}
}

func (r *checklistTemplateRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*ChecklistTemplate, error) {
	log := r.log.Function("GetByID")

	var template ChecklistTemplate
	if err := r.db.SQLWithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, dbError(log, err, "failed to get checklist template by id", "id", id)
	}

	return &template, nil
}

func (r *checklistTemplateRepository) ListAll(ctx context.Context) ([]ChecklistTemplate, error) {
	log := r.log.Function("ListAll")

	var templates []ChecklistTemplate
	if err := r.db.SQLWithContext(ctx).
		Preload("Client").
		Order("created_at DESC").
		Find(&templates).Error; err != nil {
		return nil, dbError(log, err, "failed to list checklist templates")
	}

	return templates, nil
}

// ListForClient returns the templates available to a branch of the given
// client: global templates plus the client's own, newest first.
func (r *checklistTemplateRepository) ListForClient(
	ctx context.Context,
	clientID uuid.UUID,
) ([]ChecklistTemplate, error) {
	log := r.log.Function("ListForClient")

	var templates []ChecklistTemplate
	if err := r.db.SQLWithContext(ctx).
		Where("is_global = ? OR client_id = ?", true, clientID).
		Order("created_at DESC").
		Find(&templates).Error; err != nil {
		return nil, dbError(log, err, "failed to list templates for client", "clientID", clientID)
	}

	return templates, nil
}

func (r *checklistTemplateRepository) Create(
	ctx context.Context,
	template *ChecklistTemplate,
) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(template).Error; err != nil {
		return dbError(log, err, "failed to create checklist template", "name", template.Name)
	}

	return nil
}

func (r *checklistTemplateRepository) Update(
	ctx context.Context,
	template *ChecklistTemplate,
) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(template).Error; err != nil {
		return dbError(log, err, "failed to update checklist template", "templateID", template.ID)
	}

	return nil
}

func (r *checklistTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).
		Delete(&ChecklistTemplate{}, "id = ?", id).Error; err != nil {
		return dbError(log, err, "failed to delete checklist template", "templateID", id)
	}

	return nil
}
