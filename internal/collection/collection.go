package collection

import (
	"errors"
	"time"

	"github.com/enviohq/envio-backend/internal/core/fsm"
)

// RiwayatPengangkutan is a scheduled physical waste-pickup run. A completed
// run is the precondition for creating its manifest.
type RiwayatPengangkutan struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	UserID            int64     `json:"user_id" gorm:"column:user_id;not null"`
	NomorTracking     string    `json:"nomor_tracking" gorm:"column:nomor_tracking;uniqueIndex;not null"`
	AlamatPenjemputan string    `json:"alamat_penjemputan" gorm:"column:alamat_penjemputan;not null"`
	JenisSampah       string    `json:"jenis_sampah" gorm:"column:jenis_sampah"`
	BeratKg           float64   `json:"berat_kg" gorm:"column:berat_kg"`
	Status            string    `json:"status" gorm:"default:terjadwal"`
	JadwalPenjemputan time.Time `json:"jadwal_penjemputan" gorm:"column:jadwal_penjemputan;not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (RiwayatPengangkutan) TableName() string {
	return "riwayat_pengangkutan"
}

const (
	StatusTerjadwal       = "terjadwal"
	StatusDalamPerjalanan = "dalam_perjalanan"
	StatusSelesai         = "selesai"
	StatusDibatalkan      = "dibatalkan"
)

// Transitions: cancellation is only possible before the truck departs.
var Transitions = fsm.New("riwayat_pengangkutan",
	fsm.Edge{From: StatusTerjadwal, To: StatusDalamPerjalanan},
	fsm.Edge{From: StatusDalamPerjalanan, To: StatusSelesai},
	fsm.Edge{From: StatusTerjadwal, To: StatusDibatalkan},
)

var ErrNotFound = errors.New("pengangkutan not found")
