package postgres

import (
	"time"

	"github.com/enviohq/envio-backend/internal/manifest"
	"gorm.io/gorm"
)

// ManifestRepository implements manifest.Repository using GORM
type ManifestRepository struct {
	db *gorm.DB
}

func NewManifestRepository(db *gorm.DB) *ManifestRepository {
	return &ManifestRepository{db: db}
}

func (r *ManifestRepository) Create(m *manifest.ManifestElektronik) error {
	return r.db.Create(m).Error
}

func (r *ManifestRepository) GetByID(id int64) (*manifest.ManifestElektronik, error) {
	var m manifest.ManifestElektronik
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, manifest.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *ManifestRepository) GetByUserID(userID int64, limit, offset int) ([]*manifest.ManifestElektronik, error) {
	var list []*manifest.ManifestElektronik
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *ManifestRepository) GetAll(limit, offset int) ([]*manifest.ManifestElektronik, error) {
	var list []*manifest.ManifestElektronik
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *ManifestRepository) ExistsForRun(pengangkutanID int64) (bool, error) {
	var count int64
	err := r.db.Model(&manifest.ManifestElektronik{}).
		Where("pengangkutan_id = ?", pengangkutanID).
		Count(&count).Error
	return count > 0, err
}

// TransitionStatus is the compare-and-swap for manifest status, carrying
// approval metadata in the same statement when a decision lands.
func (r *ManifestRepository) TransitionStatus(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	for k, v := range updates {
		values[k] = v
	}

	res := r.db.Model(&manifest.ManifestElektronik{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ManifestRepository) DeleteByRunIDs(pengangkutanIDs []int64) error {
	if len(pengangkutanIDs) == 0 {
		return nil
	}
	return r.db.Where("pengangkutan_id IN ?", pengangkutanIDs).Delete(&manifest.ManifestElektronik{}).Error
}
