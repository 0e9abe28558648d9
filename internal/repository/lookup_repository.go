package repository

import (
	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) ListGroup(group string) ([]model.Lookup, error) {
	var lookups []model.Lookup
	err := r.db.
		Where("lookup_group = ?", group).
		Order("sort_order ASC").
		Find(&lookups).Error
	return lookups, err
}

// Find resolves one code within a group. gorm.ErrRecordNotFound for unknown
// codes; callers turn that into a 400, never a 500.
func (r *LookupRepository) Find(group, code string) (*model.Lookup, error) {
	var lookup model.Lookup
	err := r.db.Where("lookup_group = ? AND code = ?", group, code).First(&lookup).Error
	if err != nil {
		return nil, err
	}
	return &lookup, nil
}

func (r *LookupRepository) Save(lookup *model.Lookup) error {
	return r.db.Save(lookup).Error
}
