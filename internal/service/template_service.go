package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
)

type TemplateService struct {
	templates *repository.TemplateRepository
	teams     *repository.TeamRepository
	lookups   *repository.LookupRepository
}

func NewTemplateService(templates *repository.TemplateRepository, teams *repository.TeamRepository, lookups *repository.LookupRepository) *TemplateService {
	return &TemplateService{templates: templates, teams: teams, lookups: lookups}
}

// Resolve finds the effective (form, workflow) template pair for a team and
// purchase type. Bindings win; a team without a binding for that purchase
// type falls back to its legacy per-team template pair. ErrNoTemplate when
// neither is configured.
func (s *TemplateService) Resolve(teamID uint, purchaseTypeCode string) (*repository.EffectiveTemplate, error) {
	team, err := s.teams.Get(teamID)
	if err != nil {
		return nil, err
	}

	purchaseType := model.LookupRef{Code: purchaseTypeCode}
	if purchaseTypeCode != "" {
		lookup, err := s.lookups.Find(model.LookupGroupPurchaseType, purchaseTypeCode)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to resolve purchase type: %w", err)
			}
			return nil, fmt.Errorf("unknown purchase type: %s", purchaseTypeCode)
		}
		purchaseType = lookup.Ref()
	}

	if purchaseTypeCode != "" {
		binding, err := s.templates.FindBinding(teamID, purchaseTypeCode)
		if err == nil {
			return &repository.EffectiveTemplate{
				Team:             *team,
				PurchaseType:     purchaseType,
				FormTemplate:     binding.FormTemplate,
				WorkflowTemplate: binding.WorkflowTemplate,
			}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to resolve binding: %w", err)
		}
	}

	form, workflowTpl, err := s.templates.LegacyTeamTemplate(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNoTemplate
		}
		return nil, err
	}

	return &repository.EffectiveTemplate{
		Team:             *team,
		PurchaseType:     purchaseType,
		FormTemplate:     *form,
		WorkflowTemplate: *workflowTpl,
		Legacy:           true,
	}, nil
}

// LegacyTemplate serves the old per-team endpoint: the team's default form
// template regardless of purchase type.
func (s *TemplateService) LegacyTemplate(teamID uint) (*repository.EffectiveTemplate, error) {
	team, err := s.teams.Get(teamID)
	if err != nil {
		return nil, err
	}

	form, workflowTpl, err := s.templates.LegacyTeamTemplate(teamID)
	if err != nil {
		return nil, err
	}

	return &repository.EffectiveTemplate{
		Team:             *team,
		FormTemplate:     *form,
		WorkflowTemplate: *workflowTpl,
		Legacy:           true,
	}, nil
}

func (s *TemplateService) ListFormTemplates() ([]model.FormTemplate, error) {
	return s.templates.ListFormTemplates()
}

func (s *TemplateService) GetFormTemplate(id uint) (*model.FormTemplate, error) {
	return s.templates.GetFormTemplate(id)
}

// SaveFormTemplate validates field types before persisting; an unknown
// field_type would render as an error widget on every client.
func (s *TemplateService) SaveFormTemplate(tpl *model.FormTemplate) error {
	for _, f := range tpl.Fields {
		if !f.FieldType.Known() {
			return fmt.Errorf("unknown field type: %s", f.FieldType)
		}
	}
	return s.templates.SaveFormTemplate(tpl)
}

func (s *TemplateService) DeleteFormTemplate(id uint) error {
	return s.templates.DeleteFormTemplate(id)
}

func (s *TemplateService) ListWorkflowTemplates() ([]model.WorkflowTemplate, error) {
	return s.templates.ListWorkflowTemplates()
}

func (s *TemplateService) GetWorkflowTemplate(id uint) (*model.WorkflowTemplate, error) {
	return s.templates.GetWorkflowTemplate(id)
}

// SaveWorkflowTemplate requires distinct, positive step orders; the
// transition engine walks steps by order and duplicates would make the next
// step ambiguous.
func (s *TemplateService) SaveWorkflowTemplate(tpl *model.WorkflowTemplate) error {
	seen := make(map[int]bool, len(tpl.Steps))
	for _, step := range tpl.Steps {
		if step.Order <= 0 {
			return fmt.Errorf("step order must be positive, got %d", step.Order)
		}
		if seen[step.Order] {
			return fmt.Errorf("duplicate step order: %d", step.Order)
		}
		seen[step.Order] = true
	}
	return s.templates.SaveWorkflowTemplate(tpl)
}

func (s *TemplateService) ListBindings(teamID uint) ([]model.TemplateBinding, error) {
	return s.templates.ListBindings(teamID)
}

func (s *TemplateService) SaveBinding(b *model.TemplateBinding) error {
	if _, err := s.templates.GetFormTemplate(b.FormTemplateID); err != nil {
		return fmt.Errorf("form template %d: %w", b.FormTemplateID, err)
	}
	if _, err := s.templates.GetWorkflowTemplate(b.WorkflowTemplateID); err != nil {
		return fmt.Errorf("workflow template %d: %w", b.WorkflowTemplateID, err)
	}
	return s.templates.SaveBinding(b)
}

func (s *TemplateService) DeleteBinding(id uint) error {
	return s.templates.DeleteBinding(id)
}
