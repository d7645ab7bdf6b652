package postgres

import (
	"time"

	"github.com/enviohq/envio-backend/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailByID(userID int64) (string, error) {
	var u user.User
	err := r.db.Select("email").Where("id = ?", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", user.ErrNotFound
		}
		return "", err
	}
	return u.Email, nil
}

func (r *UserRepository) Delete(userID int64) error {
	return r.db.Delete(&user.User{}, userID).Error
}

// AddEnvipoin credits loyalty points atomically in the database.
func (r *UserRepository) AddEnvipoin(userID int64, points int64) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"envipoin":   gorm.Expr("envipoin + ?", points),
			"updated_at": time.Now(),
		}).Error
}

func (r *UserRepository) SetLayananAktif(userID int64, layanan *string) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"layanan_aktif": layanan,
			"updated_at":    time.Now(),
		}).Error
}
