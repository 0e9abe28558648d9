package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

// ErrNoTemplate is returned when neither a binding nor a legacy template
// resolves for a team.
var ErrNoTemplate = errors.New("no template configured for team")

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// EffectiveTemplate is the resolved (form, workflow) pair for a team and
// purchase type.
type EffectiveTemplate struct {
	Team             model.Team             `json:"team"`
	PurchaseType     model.LookupRef        `json:"purchase_type"`
	FormTemplate     model.FormTemplate     `json:"form_template"`
	WorkflowTemplate model.WorkflowTemplate `json:"workflow_template"`
	Legacy           bool                   `json:"legacy"`
}

// FindBinding loads the binding for (team, purchase type), with templates,
// fields and steps preloaded. gorm.ErrRecordNotFound when absent.
func (r *TemplateRepository) FindBinding(teamID uint, purchaseTypeCode string) (*model.TemplateBinding, error) {
	var binding model.TemplateBinding
	err := r.db.
		Preload("FormTemplate.Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("field_order ASC")
		}).
		Preload("WorkflowTemplate.Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Where("team_id = ? AND purchase_type_code = ?", teamID, purchaseTypeCode).
		First(&binding).Error
	if err != nil {
		return nil, err
	}
	return &binding, nil
}

// LegacyTeamTemplate resolves the pre-binding per-team template pair.
func (r *TemplateRepository) LegacyTeamTemplate(teamID uint) (*model.FormTemplate, *model.WorkflowTemplate, error) {
	var team model.Team
	if err := r.db.First(&team, teamID).Error; err != nil {
		return nil, nil, err
	}
	if team.LegacyFormTemplateID == nil {
		return nil, nil, ErrNoTemplate
	}

	var form model.FormTemplate
	err := r.db.
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("field_order ASC") }).
		First(&form, *team.LegacyFormTemplateID).Error
	if err != nil {
		return nil, nil, err
	}

	workflow := &model.WorkflowTemplate{}
	if team.LegacyWorkflowTemplateID != nil {
		err = r.db.
			Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
			First(workflow, *team.LegacyWorkflowTemplateID).Error
		if err != nil {
			return nil, nil, err
		}
	}
	return &form, workflow, nil
}

func (r *TemplateRepository) GetFormTemplate(id uint) (*model.FormTemplate, error) {
	var tpl model.FormTemplate
	err := r.db.
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("field_order ASC") }).
		First(&tpl, id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepository) GetWorkflowTemplate(id uint) (*model.WorkflowTemplate, error) {
	var tpl model.WorkflowTemplate
	err := r.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		First(&tpl, id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepository) ListFormTemplates() ([]model.FormTemplate, error) {
	var tpls []model.FormTemplate
	err := r.db.
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("field_order ASC") }).
		Order("created_at DESC").
		Find(&tpls).Error
	return tpls, err
}

func (r *TemplateRepository) ListWorkflowTemplates() ([]model.WorkflowTemplate, error) {
	var tpls []model.WorkflowTemplate
	err := r.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Order("created_at DESC").
		Find(&tpls).Error
	return tpls, err
}

// SaveFormTemplate creates or replaces a form template and its fields.
func (r *TemplateRepository) SaveFormTemplate(tpl *model.FormTemplate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if tpl.ID != 0 {
			if err := tx.Where("template_id = ?", tpl.ID).Delete(&model.FormField{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(tpl).Error
	})
}

// SaveWorkflowTemplate creates or replaces a workflow template and its steps.
func (r *TemplateRepository) SaveWorkflowTemplate(tpl *model.WorkflowTemplate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if tpl.ID != 0 {
			if err := tx.Where("template_id = ?", tpl.ID).Delete(&model.WorkflowStep{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(tpl).Error
	})
}

func (r *TemplateRepository) DeleteFormTemplate(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&model.FormField{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.FormTemplate{}, id).Error
	})
}

func (r *TemplateRepository) SaveBinding(b *model.TemplateBinding) error {
	return r.db.Save(b).Error
}

func (r *TemplateRepository) ListBindings(teamID uint) ([]model.TemplateBinding, error) {
	var bindings []model.TemplateBinding
	query := r.db.Preload("FormTemplate").Preload("WorkflowTemplate")
	if teamID != 0 {
		query = query.Where("team_id = ?", teamID)
	}
	err := query.Find(&bindings).Error
	return bindings, err
}

func (r *TemplateRepository) DeleteBinding(id uint) error {
	return r.db.Delete(&model.TemplateBinding{}, id).Error
}
