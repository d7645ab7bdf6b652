package postgres

import (
	"time"

	"github.com/enviohq/envio-backend/internal/collection"
	"gorm.io/gorm"
)

// PengangkutanRepository implements collection.Repository using GORM
type PengangkutanRepository struct {
	db *gorm.DB
}

func NewPengangkutanRepository(db *gorm.DB) *PengangkutanRepository {
	return &PengangkutanRepository{db: db}
}

func (r *PengangkutanRepository) Create(run *collection.RiwayatPengangkutan) error {
	return r.db.Create(run).Error
}

func (r *PengangkutanRepository) GetByID(id int64) (*collection.RiwayatPengangkutan, error) {
	var run collection.RiwayatPengangkutan
	err := r.db.Where("id = ?", id).First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, collection.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (r *PengangkutanRepository) GetByUserID(userID int64, limit, offset int) ([]*collection.RiwayatPengangkutan, error) {
	var list []*collection.RiwayatPengangkutan
	err := r.db.Where("user_id = ?", userID).
		Order("jadwal_penjemputan DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *PengangkutanRepository) GetAll(limit, offset int) ([]*collection.RiwayatPengangkutan, error) {
	var list []*collection.RiwayatPengangkutan
	err := r.db.Order("jadwal_penjemputan DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

// TransitionStatus is the compare-and-swap for run status.
func (r *PengangkutanRepository) TransitionStatus(id int64, fromStatus, toStatus string) (bool, error) {
	res := r.db.Model(&collection.RiwayatPengangkutan{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PengangkutanRepository) DeleteByUserID(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&collection.RiwayatPengangkutan{}).Error
}

func (r *PengangkutanRepository) IDsByUserID(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&collection.RiwayatPengangkutan{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}
