package postgres

import (
	"github.com/enviohq/envio-backend/internal/document"
	"gorm.io/gorm"
)

// DokumenRepository implements document.Repository using GORM
type DokumenRepository struct {
	db *gorm.DB
}

func NewDokumenRepository(db *gorm.DB) *DokumenRepository {
	return &DokumenRepository{db: db}
}

func (r *DokumenRepository) Create(d *document.DokumenKerjasama) error {
	return r.db.Create(d).Error
}

func (r *DokumenRepository) GetByID(id int64) (*document.DokumenKerjasama, error) {
	var d document.DokumenKerjasama
	err := r.db.Where("id = ?", id).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DokumenRepository) GetByUserID(userID int64, limit, offset int) ([]*document.DokumenKerjasama, error) {
	var list []*document.DokumenKerjasama
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *DokumenRepository) GetAll(limit, offset int) ([]*document.DokumenKerjasama, error) {
	var list []*document.DokumenKerjasama
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *DokumenRepository) DeleteByUserID(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&document.DokumenKerjasama{}).Error
}
