package subscription

import (
	"errors"
	"time"

	"github.com/enviohq/envio-backend/internal/core/fsm"
)

// TransaksiLayanan is a customer's order for a catalog service. Its
// lifecycle is independent of billing; the invoice tracks payment.
type TransaksiLayanan struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	UserID          int64      `json:"user_id" gorm:"column:user_id;not null"`
	LayananID       int64      `json:"layanan_id" gorm:"column:layanan_id;not null"`
	Status          string     `json:"status" gorm:"default:pending"`
	TotalHarga      int64      `json:"total_harga" gorm:"column:total_harga;not null"`
	BuktiPembayaran *string    `json:"bukti_pembayaran,omitempty" gorm:"column:bukti_pembayaran"`
	TanggalMulai    *time.Time `json:"tanggal_mulai,omitempty" gorm:"column:tanggal_mulai"`
	TanggalSelesai  *time.Time `json:"tanggal_selesai,omitempty" gorm:"column:tanggal_selesai"`
	// EnvipoinCredited is the persisted idempotency marker for reward
	// accrual; set in the same statement as the selesai transition.
	EnvipoinCredited bool      `json:"envipoin_credited" gorm:"column:envipoin_credited;default:false"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (TransaksiLayanan) TableName() string {
	return "transaksi_layanan"
}

const (
	StatusPending    = "pending"
	StatusDiproses   = "diproses"
	StatusAktif      = "aktif"
	StatusSelesai    = "selesai"
	StatusDibatalkan = "dibatalkan"
)

// Transitions: cancellation is only reachable before activation.
var Transitions = fsm.New("transaksi_layanan",
	fsm.Edge{From: StatusPending, To: StatusDiproses},
	fsm.Edge{From: StatusDiproses, To: StatusAktif},
	fsm.Edge{From: StatusAktif, To: StatusSelesai},
	fsm.Edge{From: StatusPending, To: StatusDibatalkan},
	fsm.Edge{From: StatusDiproses, To: StatusDibatalkan},
)

var ErrNotFound = errors.New("transaksi not found")
