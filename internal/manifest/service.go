package manifest

import (
	"log/slog"
	"time"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/auth"
	"github.com/enviohq/envio-backend/internal/collection"
)

type Repository interface {
	Create(m *ManifestElektronik) error
	GetByID(id int64) (*ManifestElektronik, error)
	GetByUserID(userID int64, limit, offset int) ([]*ManifestElektronik, error)
	GetAll(limit, offset int) ([]*ManifestElektronik, error)
	ExistsForRun(pengangkutanID int64) (bool, error)
	TransitionStatus(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error)
}

// RunReader resolves the collection run a manifest hangs off.
type RunReader interface {
	RunRef(pengangkutanID int64) (userID int64, status string, err error)
}

type Service struct {
	repo   Repository
	runs   RunReader
	logger *slog.Logger
}

func NewService(repo Repository, runs RunReader, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		runs:   runs,
		logger: logger,
	}
}

// CreateManifest requires the collection run to be selesai and not already
// carry a manifest; the 1:1 link is enforced here and by a unique index.
func (s *Service) CreateManifest(userID int64, dto CreateManifestDTO) (*ManifestElektronik, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	ownerID, runStatus, err := s.runs.RunRef(dto.PengangkutanID)
	if err != nil {
		return nil, internal.NewNotFoundError("pengangkutan not found", internal.ErrCodePengangkutanNotFound)
	}
	if ownerID != userID {
		return nil, internal.ErrRoleNotAllowed
	}
	if runStatus != collection.StatusSelesai {
		return nil, internal.NewConflictError(
			"manifest requires the pengangkutan to be selesai",
			internal.ErrCodeRunNotCompleted)
	}

	exists, err := s.repo.ExistsForRun(dto.PengangkutanID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing manifest", err)
	}
	if exists {
		return nil, internal.NewConflictError(
			"pengangkutan already has a manifest",
			internal.ErrCodeManifestExists)
	}

	m := &ManifestElektronik{
		UserID:           userID,
		PengangkutanID:   dto.PengangkutanID,
		JenisLimbah:      dto.JenisLimbah,
		VolumeKg:         dto.VolumeKg,
		LokasiPembuangan: dto.LokasiPembuangan,
		Status:           StatusDraft,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to create manifest", "error", err, "pengangkutan_id", dto.PengangkutanID)
		return nil, internal.NewInternalError("failed to create manifest", err)
	}

	s.logger.Info("manifest created",
		"manifest_id", m.ID,
		"pengangkutan_id", m.PengangkutanID,
		"user_id", userID)

	return m, nil
}

func (s *Service) GetManifest(id int64, ident *internal.Identity) (*ManifestElektronik, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("manifest not found", internal.ErrCodeManifestNotFound)
	}

	if m.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	return m, nil
}

func (s *Service) ListForIdentity(ident *internal.Identity, limit, offset int) ([]*ManifestElektronik, error) {
	if auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return s.repo.GetAll(limit, offset)
	}
	return s.repo.GetByUserID(ident.UserID, limit, offset)
}

// Submit moves draft -> diajukan, putting the manifest in front of the
// superadmin for a decision.
func (s *Service) Submit(id int64, ident *internal.Identity) (*ManifestElektronik, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("manifest not found", internal.ErrCodeManifestNotFound)
	}

	if m.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	if err := Transitions.Guard(m.Status, StatusDiajukan); err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionStatus(id, StatusDraft, StatusDiajukan, nil)
	if err != nil {
		return nil, internal.NewInternalError("failed to submit manifest", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	s.logger.Info("manifest submitted", "manifest_id", id)
	return s.repo.GetByID(id)
}

// Decide approves or rejects a submitted manifest. Only a superadmin may
// decide; this is checked here as well as at the route, because the action
// touches a specific resource instance.
func (s *Service) Decide(id int64, ident *internal.Identity, dto DecisionDTO) (*ManifestElektronik, error) {
	if auth.Role(ident.Role) != auth.RoleSuperadmin {
		s.logger.Warn("manifest decision denied: not superadmin",
			"manifest_id", id,
			"user_id", ident.UserID,
			"role", ident.Role)
		return nil, internal.ErrRoleNotAllowed
	}

	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("manifest not found", internal.ErrCodeManifestNotFound)
	}

	toStatus := StatusDitolak
	if dto.Disetujui {
		toStatus = StatusDisetujui
	}

	if err := Transitions.Guard(m.Status, toStatus); err != nil {
		return nil, err
	}

	// The approval fields stay empty on a rejection; the deciding
	// superadmin is only recorded for the disetujui outcome.
	updates := map[string]interface{}{}
	if dto.Disetujui {
		updates["disetujui_oleh"] = ident.UserID
		updates["tanggal_persetujuan"] = time.Now()
	}
	if dto.Catatan != nil {
		updates["catatan_persetujuan"] = *dto.Catatan
	}

	ok, err := s.repo.TransitionStatus(id, StatusDiajukan, toStatus, updates)
	if err != nil {
		return nil, internal.NewInternalError("failed to record decision", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	s.logger.Info("manifest decision recorded",
		"manifest_id", id,
		"decision", toStatus,
		"decided_by", ident.UserID)

	return s.repo.GetByID(id)
}

// Complete closes out an approved manifest. Like Submit, only the owner or
// an admin may act on the instance.
func (s *Service) Complete(id int64, ident *internal.Identity) (*ManifestElektronik, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("manifest not found", internal.ErrCodeManifestNotFound)
	}

	if m.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	if err := Transitions.Guard(m.Status, StatusSelesai); err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionStatus(id, StatusDisetujui, StatusSelesai, nil)
	if err != nil {
		return nil, internal.NewInternalError("failed to complete manifest", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	s.logger.Info("manifest completed", "manifest_id", id)
	return s.repo.GetByID(id)
}
