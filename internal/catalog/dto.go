package catalog

import "errors"

type CreateLayananDTO struct {
	Nama           string `json:"nama"`
	Deskripsi      string `json:"deskripsi"`
	Harga          int64  `json:"harga"`
	DurasiHari     int    `json:"durasi_hari"`
	EnvipoinReward int64  `json:"envipoin_reward"`
}

func (dto CreateLayananDTO) Validate() error {
	if dto.Nama == "" {
		return errors.New("nama is required")
	}
	if dto.Harga <= 0 {
		return errors.New("harga must be greater than 0")
	}
	if dto.DurasiHari <= 0 {
		return errors.New("durasi_hari must be greater than 0")
	}
	if dto.EnvipoinReward < 0 {
		return errors.New("envipoin_reward cannot be negative")
	}
	return nil
}
