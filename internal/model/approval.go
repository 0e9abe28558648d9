package model

import (
	"time"
)

// Approval actions recorded in the history trail.
const (
	ApprovalActionSubmit   = "submit"
	ApprovalActionApprove  = "approve"
	ApprovalActionReject   = "reject"
	ApprovalActionComplete = "complete"
	ApprovalActionCancel   = "cancel"
)

// ApprovalRecord is one entry in a request's audit trail: who did what at
// which workflow step, with an optional comment. The history panel reads
// these in chronological order.
type ApprovalRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RequestID uint   `gorm:"index;not null" json:"request_id"`
	ActorID   string `gorm:"type:varchar(36);not null" json:"actor_id"`
	ActorName string `gorm:"type:varchar(200)" json:"actor_name"`
	Action    string `gorm:"type:varchar(20);not null" json:"action"`
	StepName  string `gorm:"type:varchar(200)" json:"step_name"`
	Comment   string `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (ApprovalRecord) TableName() string {
	return "approval_records"
}

// OperationLog records mutating admin calls (template/team/user management)
// for after-the-fact auditing.
type OperationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index" json:"user_id"`
	Username  string    `gorm:"type:varchar(100)" json:"username"`
	Method    string    `gorm:"type:varchar(10)" json:"method"`
	Path      string    `gorm:"type:varchar(255)" json:"path"`
	Status    int       `json:"status"`
	ClientIP  string    `gorm:"type:varchar(50)" json:"client_ip"`
	CreatedAt time.Time `json:"created_at"`
}

func (OperationLog) TableName() string {
	return "operation_logs"
}
