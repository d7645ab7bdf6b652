package document

import (
	"errors"
	"time"
)

type CreateDokumenDTO struct {
	Judul           string     `json:"judul"`
	NomorDokumen    string     `json:"nomor_dokumen"`
	FilePath        *string    `json:"file_path,omitempty"`
	TanggalMulai    *time.Time `json:"tanggal_mulai,omitempty"`
	TanggalBerakhir *time.Time `json:"tanggal_berakhir,omitempty"`
}

func (dto CreateDokumenDTO) Validate() error {
	if dto.Judul == "" {
		return errors.New("judul is required")
	}
	if dto.TanggalMulai != nil && dto.TanggalBerakhir != nil &&
		dto.TanggalBerakhir.Before(*dto.TanggalMulai) {
		return errors.New("tanggal_berakhir must be after tanggal_mulai")
	}
	if (dto.TanggalMulai == nil) != (dto.TanggalBerakhir == nil) {
		return errors.New("tanggal_mulai and tanggal_berakhir must be set together")
	}
	return nil
}
