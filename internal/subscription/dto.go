package subscription

import "errors"

type CreateTransaksiDTO struct {
	LayananID int64 `json:"layanan_id"`
}

func (dto CreateTransaksiDTO) Validate() error {
	if dto.LayananID <= 0 {
		return errors.New("layanan_id is required")
	}
	return nil
}

type PaymentEvidenceDTO struct {
	BuktiPembayaran string `json:"bukti_pembayaran"`
}

func (dto PaymentEvidenceDTO) Validate() error {
	if dto.BuktiPembayaran == "" {
		return errors.New("bukti_pembayaran is required")
	}
	return nil
}
