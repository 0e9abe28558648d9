package model

import (
	"time"
)

// Lookup group names.
const (
	LookupGroupStatus       = "status"
	LookupGroupPurchaseType = "purchase_type"
	LookupGroupRole         = "role"
)

// Lookup is a server-defined enumerated reference value (code + display
// title) used for statuses, purchase types and roles. Clients treat codes as
// opaque strings.
type Lookup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Group     string    `gorm:"column:lookup_group;type:varchar(50);not null;index:idx_lookup_group_code,unique" json:"group"`
	Code      string    `gorm:"type:varchar(50);not null;index:idx_lookup_group_code,unique" json:"code"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lookup) TableName() string {
	return "lookups"
}

// Ref converts a lookup row to its wire reference shape.
func (l Lookup) Ref() LookupRef {
	return LookupRef{Code: l.Code, Title: l.Title}
}
