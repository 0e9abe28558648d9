package model

import (
	"time"
)

// AttachmentCategory labels attachments and optionally gates submission:
// a required category with no uploaded file blocks submit with a structured
// required_attachments error.
type AttachmentCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    *uint     `gorm:"index" json:"team_id,omitempty"` // nil means every team
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Required  bool      `gorm:"default:false" json:"required"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AttachmentCategory) TableName() string {
	return "attachment_categories"
}

// Attachment is a file uploaded against a purchase request. FILE_UPLOAD form
// fields carry no value of their own; this collection is their only storage.
type Attachment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RequestID  uint   `gorm:"index;not null" json:"request_id"`
	CategoryID *uint  `gorm:"index" json:"category_id,omitempty"`
	FileName   string `gorm:"type:varchar(255);not null" json:"file_name"`
	// StoredName is the uuid-based name on disk, never exposed for download paths.
	StoredName  string `gorm:"type:varchar(100);not null" json:"-"`
	ContentType string `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	UploadedBy  string `gorm:"type:varchar(36)" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`

	Category *AttachmentCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}
