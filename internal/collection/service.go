package collection

import (
	"log/slog"
	"time"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/auth"
	"github.com/google/uuid"
)

type Repository interface {
	Create(run *RiwayatPengangkutan) error
	GetByID(id int64) (*RiwayatPengangkutan, error)
	GetByUserID(userID int64, limit, offset int) ([]*RiwayatPengangkutan, error)
	GetAll(limit, offset int) ([]*RiwayatPengangkutan, error)
	TransitionStatus(id int64, fromStatus, toStatus string) (bool, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreatePengangkutan(userID int64, dto CreatePengangkutanDTO) (*RiwayatPengangkutan, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	run := &RiwayatPengangkutan{
		UserID:            userID,
		NomorTracking:     uuid.NewString(),
		AlamatPenjemputan: dto.AlamatPenjemputan,
		JenisSampah:       dto.JenisSampah,
		BeratKg:           dto.BeratKg,
		Status:            StatusTerjadwal,
		JadwalPenjemputan: dto.JadwalPenjemputan,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := s.repo.Create(run); err != nil {
		s.logger.Error("failed to create pengangkutan", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create pengangkutan", err)
	}

	s.logger.Info("pengangkutan scheduled",
		"pengangkutan_id", run.ID,
		"user_id", userID,
		"nomor_tracking", run.NomorTracking)

	return run, nil
}

func (s *Service) GetPengangkutan(id int64, ident *internal.Identity) (*RiwayatPengangkutan, error) {
	run, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("pengangkutan not found", internal.ErrCodePengangkutanNotFound)
	}

	if run.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	return run, nil
}

func (s *Service) ListForIdentity(ident *internal.Identity, limit, offset int) ([]*RiwayatPengangkutan, error) {
	if auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return s.repo.GetAll(limit, offset)
	}
	return s.repo.GetByUserID(ident.UserID, limit, offset)
}

// UpdateStatus drives the run lifecycle. Progress transitions are an
// operations action; cancellation is also open to the owner while the run
// is still terjadwal.
func (s *Service) UpdateStatus(id int64, ident *internal.Identity, dto UpdateStatusDTO) (*RiwayatPengangkutan, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	run, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("pengangkutan not found", internal.ErrCodePengangkutanNotFound)
	}

	isAdmin := auth.Allow(auth.AdminRoles, auth.Role(ident.Role))
	if dto.Status == StatusDibatalkan {
		if run.UserID != ident.UserID && !isAdmin {
			return nil, internal.ErrRoleNotAllowed
		}
	} else if !isAdmin {
		return nil, internal.ErrRoleNotAllowed
	}

	if err := Transitions.Guard(run.Status, dto.Status); err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionStatus(id, run.Status, dto.Status)
	if err != nil {
		return nil, internal.NewInternalError("failed to update pengangkutan status", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	s.logger.Info("pengangkutan status updated",
		"pengangkutan_id", id,
		"from", run.Status,
		"to", dto.Status)

	return s.repo.GetByID(id)
}
