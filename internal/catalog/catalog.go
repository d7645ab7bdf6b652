package catalog

import (
	"errors"
	"time"
)

// Layanan is a service catalog entry. Read-only to the workflow core; the
// duration and reward fields drive subscription activation and completion.
type Layanan struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Nama           string    `json:"nama" gorm:"not null"`
	Deskripsi      string    `json:"deskripsi"`
	Harga          int64     `json:"harga" gorm:"not null"`
	DurasiHari     int       `json:"durasi_hari" gorm:"column:durasi_hari;not null"`
	EnvipoinReward int64     `json:"envipoin_reward" gorm:"column:envipoin_reward;default:0"`
	IsActive       bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Layanan) TableName() string {
	return "layanan"
}

var ErrNotFound = errors.New("layanan not found")
