package user

import (
	"errors"
	"time"
)

// User is the owning root of every business entity. Envipoin is mutated
// only by reward accrual; role changes are a superadmin action.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Nama         string    `json:"nama" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"default:user"`
	Envipoin     int64     `json:"envipoin" gorm:"default:0"`
	LayananAktif *string   `json:"layanan_aktif,omitempty" gorm:"column:layanan_aktif"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

var ErrNotFound = errors.New("user not found")
