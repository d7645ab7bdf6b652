package catalog

import (
	"log/slog"
	"time"

	"github.com/enviohq/envio-backend/internal"
)

type Repository interface {
	Create(layanan *Layanan) error
	GetByID(id int64) (*Layanan, error)
	GetActive() ([]*Layanan, error)
	Delete(id int64) error
}

// ReferenceChecker reports whether any subscription still points at a
// catalog entry. Deletion is restricted while referenced.
type ReferenceChecker interface {
	LayananIsReferenced(layananID int64) (bool, error)
}

type Service struct {
	repo   Repository
	refs   ReferenceChecker
	logger *slog.Logger
}

func NewService(repo Repository, refs ReferenceChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		refs:   refs,
		logger: logger,
	}
}

func (s *Service) CreateLayanan(dto CreateLayananDTO) (*Layanan, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	layanan := &Layanan{
		Nama:           dto.Nama,
		Deskripsi:      dto.Deskripsi,
		Harga:          dto.Harga,
		DurasiHari:     dto.DurasiHari,
		EnvipoinReward: dto.EnvipoinReward,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.repo.Create(layanan); err != nil {
		s.logger.Error("failed to create layanan", "error", err)
		return nil, internal.NewInternalError("failed to create layanan", err)
	}

	s.logger.Info("layanan created", "layanan_id", layanan.ID, "nama", layanan.Nama)
	return layanan, nil
}

func (s *Service) GetLayanan(id int64) (*Layanan, error) {
	layanan, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("layanan not found", internal.ErrCodeLayananNotFound)
	}
	return layanan, nil
}

func (s *Service) ListActive() ([]*Layanan, error) {
	layanan, err := s.repo.GetActive()
	if err != nil {
		s.logger.Error("failed to list layanan", "error", err)
		return nil, internal.NewInternalError("failed to list layanan", err)
	}
	return layanan, nil
}

// DeleteLayanan removes a catalog entry unless a subscription still
// references it, in which case the delete is rejected with Conflict.
func (s *Service) DeleteLayanan(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.NewNotFoundError("layanan not found", internal.ErrCodeLayananNotFound)
	}

	referenced, err := s.refs.LayananIsReferenced(id)
	if err != nil {
		s.logger.Error("failed to check layanan references", "error", err, "layanan_id", id)
		return internal.NewInternalError("failed to check layanan references", err)
	}
	if referenced {
		s.logger.Warn("delete layanan rejected: still referenced", "layanan_id", id)
		return internal.NewConflictError("layanan is still referenced by transactions", internal.ErrCodeLayananInUse)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete layanan", "error", err, "layanan_id", id)
		return internal.NewInternalError("failed to delete layanan", err)
	}

	s.logger.Info("layanan deleted", "layanan_id", id)
	return nil
}
