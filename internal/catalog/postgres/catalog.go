package postgres

import (
	"github.com/enviohq/envio-backend/internal/catalog"
	"gorm.io/gorm"
)

// LayananRepository implements the catalog.Repository interface using GORM
type LayananRepository struct {
	db *gorm.DB
}

func NewLayananRepository(db *gorm.DB) *LayananRepository {
	return &LayananRepository{db: db}
}

func (r *LayananRepository) Create(layanan *catalog.Layanan) error {
	return r.db.Create(layanan).Error
}

func (r *LayananRepository) GetByID(id int64) (*catalog.Layanan, error) {
	var l catalog.Layanan
	err := r.db.Where("id = ?", id).First(&l).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LayananRepository) GetActive() ([]*catalog.Layanan, error) {
	var layanan []*catalog.Layanan
	err := r.db.Where("is_active = ?", true).
		Order("harga ASC").
		Find(&layanan).Error
	return layanan, err
}

func (r *LayananRepository) Delete(id int64) error {
	return r.db.Delete(&catalog.Layanan{}, id).Error
}
