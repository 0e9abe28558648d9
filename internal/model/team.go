package model

import (
	"time"
)

// Team is the organizational unit that owns a request's form and workflow
// configuration.
type Team struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"type:varchar(20);default:active" json:"status"` // active, disabled

	// LegacyFormTemplateID is the pre-binding single-template-per-team
	// configuration. Effective template resolution falls back to it when no
	// binding exists for the requested purchase type.
	LegacyFormTemplateID     *uint `json:"legacy_form_template_id,omitempty"`
	LegacyWorkflowTemplateID *uint `json:"legacy_workflow_template_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// TeamMember assigns a workflow role to a user, either for one team or as a
// blanket rule across all teams (TeamID nil). Per-team rows override the
// blanket rule; see EffectiveRoles.
type TeamMember struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;index" json:"user_id"`
	TeamID *uint  `gorm:"index" json:"team_id"` // nil means all teams
	Role   string `gorm:"type:varchar(20);not null" json:"role"` // requestor, approver, finance

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// EffectiveRoles collapses a user's membership rows into the effective role
// per team id. Blanket rows (TeamID nil) are applied to every team first,
// then per-team rows overwrite them, last write wins. Reordering this merge
// silently changes effective permissions, so the precedence is fixed here.
func EffectiveRoles(members []TeamMember, teamIDs []uint) map[uint]string {
	roles := make(map[uint]string, len(teamIDs))
	for _, m := range members {
		if m.TeamID == nil {
			for _, id := range teamIDs {
				roles[id] = m.Role
			}
		}
	}
	for _, m := range members {
		if m.TeamID != nil {
			roles[*m.TeamID] = m.Role
		}
	}
	return roles
}
