package collection

import (
	"errors"
	"time"
)

type CreatePengangkutanDTO struct {
	AlamatPenjemputan string    `json:"alamat_penjemputan"`
	JenisSampah       string    `json:"jenis_sampah"`
	BeratKg           float64   `json:"berat_kg"`
	JadwalPenjemputan time.Time `json:"jadwal_penjemputan"`
}

func (dto CreatePengangkutanDTO) Validate() error {
	if dto.AlamatPenjemputan == "" {
		return errors.New("alamat_penjemputan is required")
	}
	if dto.JadwalPenjemputan.IsZero() {
		return errors.New("jadwal_penjemputan is required")
	}
	if dto.BeratKg < 0 {
		return errors.New("berat_kg cannot be negative")
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	switch dto.Status {
	case StatusDalamPerjalanan, StatusSelesai, StatusDibatalkan:
		return nil
	}
	return errors.New("status must be dalam_perjalanan, selesai or dibatalkan")
}
