package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LookupRef is a server-defined enumerated reference value as it appears on
// the wire: an opaque code plus its display title.
type LookupRef struct {
	Code  string `gorm:"type:varchar(50)" json:"code"`
	Title string `gorm:"type:varchar(200)" json:"title"`
}

// PurchaseRequest is the aggregate root of the PRS workflow. The status code
// is authoritative here; clients only ever branch on it and re-fetch after
// every transition call.
type PurchaseRequest struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	RequestNumber string `gorm:"type:varchar(50);uniqueIndex" json:"request_number"`

	RequestorID   string `gorm:"type:varchar(36);not null;index" json:"requestor_id"`
	RequestorName string `gorm:"type:varchar(100)" json:"requestor_name"`
	TeamID        uint   `gorm:"index;not null" json:"team_id"`

	PurchaseType LookupRef `gorm:"embedded;embeddedPrefix:purchase_type_" json:"purchase_type"`
	Status       LookupRef `gorm:"embedded;embeddedPrefix:status_" json:"status"`

	// Template linkage resolved at draft creation; the current step index
	// points into the workflow template's ordered steps.
	FormTemplateID     *uint  `gorm:"index" json:"form_template_id,omitempty"`
	WorkflowTemplateID *uint  `gorm:"index" json:"workflow_template_id,omitempty"`
	CurrentStepOrder   int    `gorm:"default:0" json:"current_step_order"`
	CurrentStepName    string `gorm:"type:varchar(200)" json:"current_step_name"`

	// Top-level scalar fields, editable while the request is a draft.
	VendorName    string          `gorm:"type:varchar(200)" json:"vendor_name"`
	VendorAccount string          `gorm:"type:varchar(100)" json:"vendor_account"`
	Subject       string          `gorm:"type:varchar(200)" json:"subject"`
	Description   string          `gorm:"type:text" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"amount"`

	RejectionComment string `gorm:"type:text" json:"rejection_comment"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Team        Team         `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	FieldValues []FieldValue `gorm:"foreignKey:RequestID" json:"field_values"`
}

func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// FieldValue stores one answer for one form field. Exactly one of the five
// value slots is non-nil and it must match the field's type; FILE_UPLOAD
// fields never get a FieldValue, their data lives in attachments only.
type FieldValue struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	RequestID uint `gorm:"index;not null" json:"request_id"`
	FieldID   uint `gorm:"index;not null" json:"field_id"`

	ValueText     *string  `gorm:"type:text" json:"value_text"`
	ValueNumber   *float64 `json:"value_number"`
	ValueBool     *bool    `json:"value_bool"`
	ValueDate     *string  `gorm:"type:varchar(30)" json:"value_date"`
	ValueDropdown *string  `gorm:"type:varchar(200)" json:"value_dropdown"`

	// SortOrder preserves the field order the values were written in.
	SortOrder int `gorm:"default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Field FormField `gorm:"foreignKey:FieldID" json:"field"`
}

func (FieldValue) TableName() string {
	return "field_values"
}
