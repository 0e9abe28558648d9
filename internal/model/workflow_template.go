package model

import (
	"time"
)

// WorkflowTemplate is the ordered approval chain a submitted request walks.
type WorkflowTemplate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:varchar(20);default:active" json:"status"` // active, archived
	CreatedBy   string    `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Steps []WorkflowStep `gorm:"foreignKey:TemplateID" json:"steps"`
}

func (WorkflowTemplate) TableName() string {
	return "workflow_templates"
}

// WorkflowStep is one approval gate. A step flagged as the finance gate moves
// the request into FINANCE_REVIEW and is completable only by a finance role.
type WorkflowStep struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TemplateID    uint   `gorm:"index;not null" json:"template_id"`
	Name          string `gorm:"type:varchar(200);not null" json:"name"`
	Order         int    `gorm:"column:step_order;default:0" json:"order"`
	ApproverRole  string `gorm:"type:varchar(20);default:approver" json:"approver_role"` // approver, finance
	IsFinanceStep bool   `gorm:"default:false" json:"is_finance_step"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WorkflowStep) TableName() string {
	return "workflow_steps"
}

// TemplateBinding resolves (team, purchase type) to the effective form and
// workflow template pair. Teams without a binding for a purchase type fall
// back to the team's legacy single form template.
type TemplateBinding struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	TeamID             uint   `gorm:"index:idx_binding_team_type,unique;not null" json:"team_id"`
	PurchaseTypeCode   string `gorm:"index:idx_binding_team_type,unique;type:varchar(50);not null" json:"purchase_type_code"`
	FormTemplateID     uint   `gorm:"not null" json:"form_template_id"`
	WorkflowTemplateID uint   `gorm:"not null" json:"workflow_template_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FormTemplate     FormTemplate     `gorm:"foreignKey:FormTemplateID" json:"form_template,omitempty"`
	WorkflowTemplate WorkflowTemplate `gorm:"foreignKey:WorkflowTemplateID" json:"workflow_template,omitempty"`
}

func (TemplateBinding) TableName() string {
	return "template_bindings"
}
