package manifest

import (
	"errors"
	"time"

	"github.com/enviohq/envio-backend/internal/core/fsm"
)

// ManifestElektronik is the regulatory disposal-tracking document tied 1:1
// to a completed collection run. The approval decision is a superadmin
// action and is checked again at the service layer, not only at the route.
type ManifestElektronik struct {
	ID                 int64      `json:"id" gorm:"primaryKey"`
	UserID             int64      `json:"user_id" gorm:"column:user_id;not null"`
	PengangkutanID     int64      `json:"pengangkutan_id" gorm:"column:pengangkutan_id;uniqueIndex;not null"`
	JenisLimbah        string     `json:"jenis_limbah" gorm:"column:jenis_limbah;not null"`
	VolumeKg           float64    `json:"volume_kg" gorm:"column:volume_kg"`
	LokasiPembuangan   string     `json:"lokasi_pembuangan" gorm:"column:lokasi_pembuangan"`
	Status             string     `json:"status" gorm:"default:draft"`
	DisetujuiOleh      *int64     `json:"disetujui_oleh,omitempty" gorm:"column:disetujui_oleh"`
	TanggalPersetujuan *time.Time `json:"tanggal_persetujuan,omitempty" gorm:"column:tanggal_persetujuan"`
	CatatanPersetujuan *string    `json:"catatan_persetujuan,omitempty" gorm:"column:catatan_persetujuan"`
	CreatedAt          time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (ManifestElektronik) TableName() string {
	return "manifest_elektronik"
}

const (
	StatusDraft     = "draft"
	StatusDiajukan  = "diajukan"
	StatusDisetujui = "disetujui"
	StatusDitolak   = "ditolak"
	StatusSelesai   = "selesai"
)

// Transitions: ditolak is terminal; a resubmission is a new draft entity,
// not a transition out of ditolak.
var Transitions = fsm.New("manifest_elektronik",
	fsm.Edge{From: StatusDraft, To: StatusDiajukan},
	fsm.Edge{From: StatusDiajukan, To: StatusDisetujui},
	fsm.Edge{From: StatusDiajukan, To: StatusDitolak},
	fsm.Edge{From: StatusDisetujui, To: StatusSelesai},
)

var ErrNotFound = errors.New("manifest not found")
