package postgres

import (
	"time"

	"github.com/enviohq/envio-backend/internal/subscription"
	"gorm.io/gorm"
)

// TransaksiRepository implements subscription.Repository using GORM
type TransaksiRepository struct {
	db *gorm.DB
}

func NewTransaksiRepository(db *gorm.DB) *TransaksiRepository {
	return &TransaksiRepository{db: db}
}

func (r *TransaksiRepository) Create(t *subscription.TransaksiLayanan) error {
	return r.db.Create(t).Error
}

func (r *TransaksiRepository) GetByID(id int64) (*subscription.TransaksiLayanan, error) {
	var t subscription.TransaksiLayanan
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, subscription.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransaksiRepository) GetByUserID(userID int64, limit, offset int) ([]*subscription.TransaksiLayanan, error) {
	var list []*subscription.TransaksiLayanan
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *TransaksiRepository) GetAll(limit, offset int) ([]*subscription.TransaksiLayanan, error) {
	var list []*subscription.TransaksiLayanan
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

// TransitionStatus applies a compare-and-swap against the expected current
// status. Zero rows affected means a concurrent request already moved the
// row; the caller surfaces that as Conflict.
func (r *TransaksiRepository) TransitionStatus(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	for k, v := range updates {
		values[k] = v
	}

	res := r.db.Model(&subscription.TransaksiLayanan{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByLayananID backs the catalog delete restriction.
func (r *TransaksiRepository) CountByLayananID(layananID int64) (int64, error) {
	var count int64
	err := r.db.Model(&subscription.TransaksiLayanan{}).
		Where("layanan_id = ?", layananID).
		Count(&count).Error
	return count, err
}

func (r *TransaksiRepository) DeleteByUserID(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&subscription.TransaksiLayanan{}).Error
}

func (r *TransaksiRepository) IDsByUserID(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&subscription.TransaksiLayanan{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}
