package postgres

import (
	"time"

	"github.com/reliefops/duty-management/internal"
	"github.com/reliefops/duty-management/internal/swap"
	"gorm.io/gorm"
)

// SwapRepository implements the swap.Repository interface using GORM
type SwapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) swap.Repository {
	return &SwapRepository{db: db}
}

func (r *SwapRepository) List(status *swap.Status) ([]*swap.SwapRequest, error) {
	if r.db == nil {
		return []*swap.SwapRequest{}, internal.ErrNotConfigured
	}

	query := r.db.Joins("Requester").Joins("Target").Joins("Schedule")
	if status != nil {
		query = query.Where("swap_requests.status = ?", *status)
	}

	var requests []*swap.SwapRequest
	err := query.Order("swap_requests.created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *SwapRepository) GetByID(id int64) (*swap.SwapRequest, error) {
	if r.db == nil {
		return nil, internal.ErrNotConfigured
	}

	var req swap.SwapRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, swap.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *SwapRepository) Create(req *swap.SwapRequest) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	return r.db.Create(req).Error
}

func (r *SwapRepository) UpdateStatus(id int64, status swap.Status) error {
	if r.db == nil {
		return internal.ErrNotConfigured
	}
	return r.db.Model(&swap.SwapRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
