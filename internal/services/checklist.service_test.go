package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bakimtrack/internal/apperrors"
	. "bakimtrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type stubTemplateRepo struct {
	templates map[uuid.UUID]*ChecklistTemplate
	failWith  error
}

func (s *stubTemplateRepo) GetByID(
	_ context.Context,
	id uuid.UUID,
) (*ChecklistTemplate, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	template, ok := s.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: template", apperrors.ErrNotFound)
	}
	return template, nil
}

func (s *stubTemplateRepo) ListAll(context.Context) ([]ChecklistTemplate, error) {
	return nil, nil
}

func (s *stubTemplateRepo) ListForClient(
	_ context.Context,
	clientID uuid.UUID,
) ([]ChecklistTemplate, error) {
	var templates []ChecklistTemplate
	for _, template := range s.templates {
		if template.IsGlobal || (template.ClientID != nil && *template.ClientID == clientID) {
			templates = append(templates, *template)
		}
	}
	return templates, nil
}

func (s *stubTemplateRepo) Create(_ context.Context, template *ChecklistTemplate) error {
	s.templates[template.ID] = template
	return nil
}

func (s *stubTemplateRepo) Update(_ context.Context, template *ChecklistTemplate) error {
	s.templates[template.ID] = template
	return nil
}

func (s *stubTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.templates, id)
	return nil
}

func addTemplate(repo *stubTemplateRepo, items []string, clientID *uuid.UUID) *ChecklistTemplate {
	template := &ChecklistTemplate{
		Name:     "template",
		Items:    datatypes.JSONSlice[string](items),
		IsGlobal: clientID == nil,
		ClientID: clientID,
	}
	template.ID = uuid.Must(uuid.NewV7())
	repo.templates[template.ID] = template
	return template
}

func TestChecklistResolve_TemplateWins(t *testing.T) {
	repo := &stubTemplateRepo{templates: map[uuid.UUID]*ChecklistTemplate{}}
	service := NewChecklistService(repo)

	template := addTemplate(repo, []string{"Bir", "İki", "Üç"}, nil)
	instructions := "Sıralı gidin"
	template.Instructions = &instructions

	resolved, err := service.Resolve(context.Background(), &template.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bir", "İki", "Üç"}, resolved.Questions)
	require.NotNil(t, resolved.Instructions)
	assert.Equal(t, instructions, *resolved.Instructions)
}

func TestChecklistResolve_FallbackCases(t *testing.T) {
	repo := &stubTemplateRepo{templates: map[uuid.UUID]*ChecklistTemplate{}}
	service := NewChecklistService(repo)

	empty := addTemplate(repo, nil, nil)
	unknown := uuid.Must(uuid.NewV7())

	testCases := []struct {
		name       string
		templateID *uuid.UUID
	}{
		{name: "no template selected", templateID: nil},
		{name: "template not found", templateID: &unknown},
		{name: "template has no items", templateID: &empty.ID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := service.Resolve(context.Background(), tc.templateID)
			require.NoError(t, err)

			assert.Equal(t, DefaultChecklistQuestions, resolved.Questions)
			assert.Len(t, resolved.Questions, 5)
			assert.Nil(t, resolved.Instructions)
		})
	}
}

func TestChecklistResolve_StoreFailureSurfaces(t *testing.T) {
	repo := &stubTemplateRepo{
		templates: map[uuid.UUID]*ChecklistTemplate{},
		failWith:  fmt.Errorf("%w: connection refused", apperrors.ErrStoreUnavailable),
	}
	service := NewChecklistService(repo)

	templateID := uuid.Must(uuid.NewV7())
	_, err := service.Resolve(context.Background(), &templateID)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestTemplatesForBranch(t *testing.T) {
	repo := &stubTemplateRepo{templates: map[uuid.UUID]*ChecklistTemplate{}}
	service := NewChecklistService(repo)

	clientID := uuid.Must(uuid.NewV7())
	otherClientID := uuid.Must(uuid.NewV7())

	global := addTemplate(repo, []string{"G"}, nil)
	owned := addTemplate(repo, []string{"O"}, &clientID)
	addTemplate(repo, []string{"X"}, &otherClientID)

	branch := &Branch{ClientID: clientID}
	templates, err := service.TemplatesForBranch(context.Background(), branch)
	require.NoError(t, err)

	ids := make([]uuid.UUID, len(templates))
	for i, template := range templates {
		ids[i] = template.ID
	}
	assert.ElementsMatch(t, []uuid.UUID{global.ID, owned.ID}, ids)
}
