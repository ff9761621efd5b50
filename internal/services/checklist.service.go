package services

import (
	"context"
	"errors"

	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"
	"bakimtrack/internal/repositories"

	"github.com/google/uuid"
)

// DefaultChecklistQuestions is the fixed fallback checklist used when no
// usable template is selected for a new log.
var DefaultChecklistQuestions = []string{
	"Genel temizlik kontrolü yapıldı mı?",
	"Cihaz bağlantıları kontrol edildi mi?",
	"Güvenlik etiketleri sağlam mı?",
	"Fonksiyon testleri başarılı mı?",
	"Müşteriye bilgi verildi mi?",
}

// ResolvedChecklist is the item snapshot and instructions text a new
// maintenance log starts with.
type ResolvedChecklist struct {
	Questions    []string
	Instructions *string
}

// ChecklistService resolves checklist templates into the snapshot a new
// log is created from. It only reads templates, never mutates them.
type ChecklistService struct {
	templateRepo repositories.ChecklistTemplateRepository
	log          logger.Logger
}

func NewChecklistService(templateRepo repositories.ChecklistTemplateRepository) *ChecklistService {
	return &ChecklistService{
		templateRepo: templateRepo,
		log:          logger.New("checklistService"),
	}
}

// Resolve produces the checklist for a new log. A selected template with a
// non-empty item list wins; a missing selection, an unknown template id, or
// an empty template all fall back to the default questions. Store failures
// surface instead of degrading to the fallback.
func (s *ChecklistService) Resolve(
	ctx context.Context,
	templateID *uuid.UUID,
) (*ResolvedChecklist, error) {
	log := s.log.Function("Resolve")

	if templateID != nil {
		template, err := s.templateRepo.GetByID(ctx, *templateID)
		switch {
		case err == nil:
			if len(template.Items) > 0 {
				return &ResolvedChecklist{
					Questions:    append([]string{}, template.Items...),
					Instructions: template.Instructions,
				}, nil
			}
			log.Warn("selected template has no items, using default checklist",
				"templateID", *templateID)
		case errors.Is(err, apperrors.ErrNotFound):
			log.Warn("selected template not found, using default checklist",
				"templateID", *templateID)
		default:
			return nil, err
		}
	}

	return &ResolvedChecklist{
		Questions: append([]string{}, DefaultChecklistQuestions...),
	}, nil
}

// TemplatesForBranch lists the templates a technician may pick from at the
// given branch: global templates plus the branch owner's, newest first.
func (s *ChecklistService) TemplatesForBranch(
	ctx context.Context,
	branch *Branch,
) ([]ChecklistTemplate, error) {
	return s.templateRepo.ListForClient(ctx, branch.ClientID)
}
