package document

import (
	"log/slog"
	"time"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/auth"
)

type Repository interface {
	Create(d *DokumenKerjasama) error
	GetByID(id int64) (*DokumenKerjasama, error)
	GetByUserID(userID int64, limit, offset int) ([]*DokumenKerjasama, error)
	GetAll(limit, offset int) ([]*DokumenKerjasama, error)
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

func (s *Service) CreateDokumen(userID int64, dto CreateDokumenDTO) (*DokumenKerjasama, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	d := &DokumenKerjasama{
		UserID:          userID,
		Judul:           dto.Judul,
		NomorDokumen:    dto.NomorDokumen,
		FilePath:        dto.FilePath,
		TanggalMulai:    dto.TanggalMulai,
		TanggalBerakhir: dto.TanggalBerakhir,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.repo.Create(d); err != nil {
		s.logger.Error("failed to create dokumen", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create dokumen", err)
	}

	d.Status = d.EffectiveStatus(time.Now())
	s.logger.Info("dokumen created", "dokumen_id", d.ID, "user_id", userID)
	return d, nil
}

func (s *Service) GetDokumen(id int64, ident *internal.Identity) (*DokumenKerjasama, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("dokumen not found", internal.ErrCodeDokumenNotFound)
	}

	if d.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	d.Status = d.EffectiveStatus(time.Now())
	return d, nil
}

func (s *Service) ListForIdentity(ident *internal.Identity, limit, offset int) ([]*DokumenKerjasama, error) {
	var (
		list []*DokumenKerjasama
		err  error
	)
	if auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		list, err = s.repo.GetAll(limit, offset)
	} else {
		list, err = s.repo.GetByUserID(ident.UserID, limit, offset)
	}
	if err != nil {
		return nil, internal.NewInternalError("failed to list dokumen", err)
	}

	now := time.Now()
	for _, d := range list {
		d.Status = d.EffectiveStatus(now)
	}
	return list, nil
}
