package repository

import (
	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// History returns a request's approval trail in chronological order.
func (r *ApprovalRepository) History(requestID uint) ([]model.ApprovalRecord, error) {
	var records []model.ApprovalRecord
	err := r.db.
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *ApprovalRepository) Record(record *model.ApprovalRecord) error {
	return r.db.Create(record).Error
}

func (r *ApprovalRepository) LogOperation(log *model.OperationLog) error {
	return r.db.Create(log).Error
}
