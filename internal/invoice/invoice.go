package invoice

import (
	"errors"
	"time"

	"github.com/enviohq/envio-backend/internal/core/fsm"
)

// Invoice is the billing record for one transaction. total_tagihan must
// equal subtotal + ppn at creation and after every amount edit.
type Invoice struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	TransaksiID       int64      `json:"transaksi_id" gorm:"column:transaksi_id;not null"`
	UserID            int64      `json:"user_id" gorm:"column:user_id;not null"`
	NomorInvoice      string     `json:"nomor_invoice" gorm:"column:nomor_invoice;uniqueIndex"`
	Subtotal          int64      `json:"subtotal" gorm:"not null"`
	PPN               int64      `json:"ppn" gorm:"column:ppn;not null"`
	TotalTagihan      int64      `json:"total_tagihan" gorm:"column:total_tagihan;not null"`
	JumlahDibayar     int64      `json:"jumlah_dibayar" gorm:"column:jumlah_dibayar;default:0"`
	StatusPembayaran  string     `json:"status_pembayaran" gorm:"column:status_pembayaran;default:belum_bayar"`
	TanggalJatuhTempo time.Time  `json:"tanggal_jatuh_tempo" gorm:"column:tanggal_jatuh_tempo;not null"`
	TanggalPembayaran *time.Time `json:"tanggal_pembayaran,omitempty" gorm:"column:tanggal_pembayaran"`
	CreatedAt         time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Invoice) TableName() string {
	return "invoices"
}

const (
	StatusBelumBayar = "belum_bayar"
	StatusPartial    = "partial"
	StatusLunas      = "lunas"
	StatusJatuhTempo = "jatuh_tempo"
)

// Transitions: lunas is terminal. jatuh_tempo is entered by time, not by a
// user command, and is modeled here so the sweep can persist it.
var Transitions = fsm.New("invoice",
	fsm.Edge{From: StatusBelumBayar, To: StatusPartial},
	fsm.Edge{From: StatusBelumBayar, To: StatusLunas},
	fsm.Edge{From: StatusPartial, To: StatusLunas},
	fsm.Edge{From: StatusBelumBayar, To: StatusJatuhTempo},
	fsm.Edge{From: StatusPartial, To: StatusJatuhTempo},
	fsm.Edge{From: StatusJatuhTempo, To: StatusLunas},
)

// EffectiveStatus derives jatuh_tempo lazily: an unpaid or partially paid
// invoice past its due date reads as overdue without waiting for a sweep.
func (i *Invoice) EffectiveStatus(now time.Time) string {
	if (i.StatusPembayaran == StatusBelumBayar || i.StatusPembayaran == StatusPartial) &&
		now.After(i.TanggalJatuhTempo) {
		return StatusJatuhTempo
	}
	return i.StatusPembayaran
}

// Resolved reports whether the invoice no longer blocks its transaction's
// cancellation.
func (i *Invoice) Resolved(now time.Time) bool {
	s := i.EffectiveStatus(now)
	return s == StatusLunas || s == StatusJatuhTempo
}

var ErrNotFound = errors.New("invoice not found")
