package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// RequestFilter narrows List queries.
type RequestFilter struct {
	RequestorID   string
	TeamID        uint
	StatusCode    string
	ExcludeStatus string
	Keyword       string
	Page          int
	PageSize      int
}

// List returns a page of requests, newest first.
func (r *RequestRepository) List(f RequestFilter) (total int64, requests []model.PurchaseRequest, err error) {
	query := r.db.Model(&model.PurchaseRequest{})

	if f.RequestorID != "" {
		query = query.Where("requestor_id = ?", f.RequestorID)
	}
	if f.TeamID != 0 {
		query = query.Where("team_id = ?", f.TeamID)
	}
	if f.StatusCode != "" {
		query = query.Where("status_code = ?", f.StatusCode)
	}
	if f.ExcludeStatus != "" {
		query = query.Where("status_code != ?", f.ExcludeStatus)
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		query = query.Where("subject LIKE ? OR request_number LIKE ? OR vendor_name LIKE ?", like, like, like)
	}

	if err = query.Count(&total).Error; err != nil {
		return
	}
	if total == 0 {
		return 0, []model.PurchaseRequest{}, nil
	}

	if f.PageSize > 0 && f.Page > 0 {
		query = query.Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize)
	}

	err = query.Preload("Team").Order("created_at DESC").Find(&requests).Error
	return
}

// Get loads one request with its team and ordered field values.
func (r *RequestRepository) Get(id uint) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	err := r.db.
		Preload("Team").
		Preload("FieldValues", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("FieldValues.Field").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Create(req *model.PurchaseRequest) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) Save(req *model.PurchaseRequest) error {
	return r.db.Save(req).Error
}

// ReplaceFieldValues swaps a request's stored answers for the given set
// inside one transaction. Last write wins; saving is idempotent.
func (r *RequestRepository) ReplaceFieldValues(requestID uint, values []model.FieldValue) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", requestID).Delete(&model.FieldValue{}).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		for i := range values {
			values[i].ID = 0
			values[i].RequestID = requestID
			values[i].SortOrder = i
		}
		return tx.Create(&values).Error
	})
}

// UpdateStatus persists a transition outcome plus any transition metadata in
// one update.
func (r *RequestRepository) UpdateStatus(requestID uint, fields map[string]interface{}) error {
	return r.db.Model(&model.PurchaseRequest{}).Where("id = ?", requestID).Updates(fields).Error
}

// SummaryByTeam powers the finance summary endpoint.
func (r *RequestRepository) SummaryByTeam(statusCode string) ([]TeamSummaryRow, error) {
	var rows []TeamSummaryRow
	err := r.db.Model(&model.PurchaseRequest{}).
		Select("team_id, COUNT(*) AS request_count, SUM(amount) AS total_amount").
		Where("status_code = ?", statusCode).
		Group("team_id").
		Scan(&rows).Error
	return rows, err
}

// CountByStatus feeds the by-status gauge.
func (r *RequestRepository) CountByStatus() ([]StatusCountRow, error) {
	var rows []StatusCountRow
	err := r.db.Model(&model.PurchaseRequest{}).
		Select("status_code, COUNT(*) AS request_count").
		Group("status_code").
		Scan(&rows).Error
	return rows, err
}

type StatusCountRow struct {
	StatusCode   string `json:"status_code"`
	RequestCount int64  `json:"request_count"`
}

// TeamSummaryRow is one aggregate line of the finance summary.
type TeamSummaryRow struct {
	TeamID       uint    `json:"team_id"`
	RequestCount int64   `json:"request_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
