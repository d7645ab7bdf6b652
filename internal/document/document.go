package document

import (
	"errors"
	"time"
)

// DokumenKerjasama is a cooperation agreement. Its status is derived from
// the validity window at read time, never set by a user command.
type DokumenKerjasama struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	UserID          int64      `json:"user_id" gorm:"column:user_id;not null"`
	Judul           string     `json:"judul" gorm:"not null"`
	NomorDokumen    string     `json:"nomor_dokumen" gorm:"column:nomor_dokumen"`
	FilePath        *string    `json:"file_path,omitempty" gorm:"column:file_path"`
	TanggalMulai    *time.Time `json:"tanggal_mulai,omitempty" gorm:"column:tanggal_mulai"`
	TanggalBerakhir *time.Time `json:"tanggal_berakhir,omitempty" gorm:"column:tanggal_berakhir"`
	Status          string     `json:"status" gorm:"-"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (DokumenKerjasama) TableName() string {
	return "dokumen_kerjasama"
}

const (
	StatusDraft          = "draft"
	StatusAktif          = "aktif"
	StatusAkanKadaluarsa = "akan_kadaluarsa"
	StatusKadaluarsa     = "kadaluarsa"

	// expiryWarning is how long before tanggal_berakhir a document reads
	// as akan_kadaluarsa.
	expiryWarning = 30 * 24 * time.Hour
)

// EffectiveStatus derives the document state from its validity window.
func (d *DokumenKerjasama) EffectiveStatus(now time.Time) string {
	if d.TanggalMulai == nil || d.TanggalBerakhir == nil || now.Before(*d.TanggalMulai) {
		return StatusDraft
	}
	if now.After(*d.TanggalBerakhir) {
		return StatusKadaluarsa
	}
	if d.TanggalBerakhir.Sub(now) <= expiryWarning {
		return StatusAkanKadaluarsa
	}
	return StatusAktif
}

var ErrNotFound = errors.New("dokumen not found")
