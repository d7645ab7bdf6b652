package invoice

import (
	"errors"
	"time"
)

type CreateInvoiceDTO struct {
	TransaksiID       int64     `json:"transaksi_id"`
	Subtotal          int64     `json:"subtotal"`
	PPN               int64     `json:"ppn"`
	TanggalJatuhTempo time.Time `json:"tanggal_jatuh_tempo"`
}

func (dto CreateInvoiceDTO) Validate() error {
	if dto.TransaksiID <= 0 {
		return errors.New("transaksi_id is required")
	}
	if dto.Subtotal <= 0 {
		return errors.New("subtotal must be greater than 0")
	}
	if dto.PPN < 0 {
		return errors.New("ppn cannot be negative")
	}
	if dto.TanggalJatuhTempo.IsZero() {
		return errors.New("tanggal_jatuh_tempo is required")
	}
	return nil
}

type UpdateAmountsDTO struct {
	Subtotal int64 `json:"subtotal"`
	PPN      int64 `json:"ppn"`
}

func (dto UpdateAmountsDTO) Validate() error {
	if dto.Subtotal <= 0 {
		return errors.New("subtotal must be greater than 0")
	}
	if dto.PPN < 0 {
		return errors.New("ppn cannot be negative")
	}
	return nil
}

type PayInvoiceDTO struct {
	Jumlah int64 `json:"jumlah"`
}

func (dto PayInvoiceDTO) Validate() error {
	if dto.Jumlah <= 0 {
		return errors.New("jumlah must be greater than 0")
	}
	return nil
}
