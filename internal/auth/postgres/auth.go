package postgres

import (
	"time"

	"github.com/enviohq/envio-backend/internal/auth"
	"github.com/enviohq/envio-backend/internal/user"
	"gorm.io/gorm"
)

// AuthRepository implements auth.UserRepository over the users table.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetCredentialsByEmail(email string) (*auth.Credential, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}

	return &auth.Credential{
		UserID:       u.ID,
		PasswordHash: u.PasswordHash,
		Role:         auth.Role(u.Role),
	}, nil
}

func (r *AuthRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *AuthRepository) CreateUser(nama, email, passwordHash string) (int64, error) {
	u := user.User{
		Nama:         nama,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(auth.RoleUser),
		Envipoin:     0,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := r.db.Create(&u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}
