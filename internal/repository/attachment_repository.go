package repository

import (
	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) ListByRequest(requestID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.
		Preload("Category").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) Get(requestID, id uint) (*model.Attachment, error) {
	var a model.Attachment
	err := r.db.Where("request_id = ?", requestID).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) Create(a *model.Attachment) error {
	return r.db.Create(a).Error
}

func (r *AttachmentRepository) Delete(requestID, id uint) error {
	return r.db.Where("request_id = ?", requestID).Delete(&model.Attachment{}, id).Error
}

func (r *AttachmentRepository) Category(id uint) (*model.AttachmentCategory, error) {
	var c model.AttachmentCategory
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Categories lists the categories visible to a team: team-specific rows plus
// the global ones (nil team).
func (r *AttachmentRepository) Categories(teamID uint) ([]model.AttachmentCategory, error) {
	var categories []model.AttachmentCategory
	err := r.db.
		Where("team_id IS NULL OR team_id = ?", teamID).
		Order("sort_order ASC").
		Find(&categories).Error
	return categories, err
}

// MissingRequiredCategories returns the required categories for the team
// that have no attachment on the request yet, in category order.
func (r *AttachmentRepository) MissingRequiredCategories(requestID, teamID uint) ([]model.AttachmentCategory, error) {
	categories, err := r.Categories(teamID)
	if err != nil {
		return nil, err
	}

	attachments, err := r.ListByRequest(requestID)
	if err != nil {
		return nil, err
	}
	covered := make(map[uint]bool, len(attachments))
	for _, a := range attachments {
		if a.CategoryID != nil {
			covered[*a.CategoryID] = true
		}
	}

	var missing []model.AttachmentCategory
	for _, c := range categories {
		if c.Required && !covered[c.ID] {
			missing = append(missing, c)
		}
	}
	return missing, nil
}
