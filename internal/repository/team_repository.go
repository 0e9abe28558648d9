package repository

import (
	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List() ([]model.Team, error) {
	var teams []model.Team
	err := r.db.Where("status = ?", "active").Order("name ASC").Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) ListAllIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Team{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *TeamRepository) Get(id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) Save(team *model.Team) error {
	return r.db.Save(team).Error
}

func (r *TeamRepository) Delete(id uint) error {
	return r.db.Delete(&model.Team{}, id).Error
}

// MembersOf lists all membership rows for a user, blanket rows included.
func (r *TeamRepository) MembersOf(userID string) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := r.db.Where("user_id = ?", userID).Find(&members).Error
	return members, err
}

// TeamMembers lists the membership rows of one team.
func (r *TeamRepository) TeamMembers(teamID uint) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := r.db.Where("team_id = ?", teamID).Find(&members).Error
	return members, err
}

// ReplaceMemberRoles rewrites a user's membership rows: one optional blanket
// role plus per-team overrides, in a single transaction.
func (r *TeamRepository) ReplaceMemberRoles(userID string, blanketRole string, overrides []model.TeamMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		if blanketRole != "" {
			if err := tx.Create(&model.TeamMember{UserID: userID, Role: blanketRole}).Error; err != nil {
				return err
			}
		}
		for i := range overrides {
			overrides[i].ID = 0
			overrides[i].UserID = userID
		}
		if len(overrides) > 0 {
			return tx.Create(&overrides).Error
		}
		return nil
	})
}

// EffectiveRole resolves the user's workflow role for one team by the fixed
// blanket-then-override merge.
func (r *TeamRepository) EffectiveRole(userID string, teamID uint) (string, error) {
	members, err := r.MembersOf(userID)
	if err != nil {
		return "", err
	}
	roles := model.EffectiveRoles(members, []uint{teamID})
	return roles[teamID], nil
}
