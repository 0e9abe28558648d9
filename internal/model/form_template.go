package model

import (
	"time"

	"gorm.io/datatypes"
)

// FieldType enumerates the supported form field kinds. The set is closed:
// anything else coming back from a template is rendered as an inline error,
// never a hard failure.
type FieldType string

const (
	FieldTypeText       FieldType = "TEXT"
	FieldTypeNumber     FieldType = "NUMBER"
	FieldTypeDate       FieldType = "DATE"
	FieldTypeBoolean    FieldType = "BOOLEAN"
	FieldTypeDropdown   FieldType = "DROPDOWN"
	FieldTypeFileUpload FieldType = "FILE_UPLOAD"
)

// Known reports whether t is one of the closed field type set.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeBoolean,
		FieldTypeDropdown, FieldTypeFileUpload:
		return true
	}
	return false
}

// FormTemplate groups the fields a purchase request of a given shape collects.
type FormTemplate struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Status      string      `gorm:"type:varchar(20);default:active" json:"status"` // active, archived
	CreatedBy   string      `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Fields []FormField `gorm:"foreignKey:TemplateID" json:"fields"`
}

func (FormTemplate) TableName() string {
	return "form_templates"
}

// FormField is the schema for one form input. Immutable once fetched by a
// client; field values reference fields, they never own them.
type FormField struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TemplateID uint      `gorm:"index;not null" json:"template_id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Label      string    `gorm:"type:varchar(200);not null" json:"label"`
	FieldType  FieldType `gorm:"type:varchar(20);not null" json:"field_type"`
	Required   bool      `gorm:"default:false" json:"required"`
	Order      int       `gorm:"column:field_order;default:0" json:"order"`

	// DefaultValue uses a type-dependent string encoding: NUMBER defaults are
	// parsed as floats, BOOLEAN defaults are "true"/"1", others pass through.
	DefaultValue string `gorm:"type:varchar(500)" json:"default_value"`
	HelpText     string `gorm:"type:varchar(500)" json:"help_text"`

	// DropdownOptions is an ordered JSON array of strings (DROPDOWN only).
	DropdownOptions datatypes.JSON `gorm:"type:json" json:"dropdown_options,omitempty"`

	// ValidationRules is an open JSON map, e.g. multiline, rows, min, max, step.
	ValidationRules datatypes.JSON `gorm:"type:json" json:"validation_rules,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FormField) TableName() string {
	return "form_fields"
}
