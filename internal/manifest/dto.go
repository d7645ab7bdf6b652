package manifest

import "errors"

type CreateManifestDTO struct {
	PengangkutanID   int64   `json:"pengangkutan_id"`
	JenisLimbah      string  `json:"jenis_limbah"`
	VolumeKg         float64 `json:"volume_kg"`
	LokasiPembuangan string  `json:"lokasi_pembuangan"`
}

func (dto CreateManifestDTO) Validate() error {
	if dto.PengangkutanID <= 0 {
		return errors.New("pengangkutan_id is required")
	}
	if dto.JenisLimbah == "" {
		return errors.New("jenis_limbah is required")
	}
	if dto.VolumeKg < 0 {
		return errors.New("volume_kg cannot be negative")
	}
	return nil
}

type DecisionDTO struct {
	Disetujui bool    `json:"disetujui"`
	Catatan   *string `json:"catatan,omitempty"`
}
