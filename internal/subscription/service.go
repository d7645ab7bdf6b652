package subscription

import (
	"log/slog"
	"time"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/auth"
	"github.com/enviohq/envio-backend/internal/catalog"
)

// Repository defines the data access methods for transactions. Status
// writes go through TransitionStatus, a compare-and-swap guarded on the
// expected current state: false means another request won the race.
type Repository interface {
	Create(t *TransaksiLayanan) error
	GetByID(id int64) (*TransaksiLayanan, error)
	GetByUserID(userID int64, limit, offset int) ([]*TransaksiLayanan, error)
	GetAll(limit, offset int) ([]*TransaksiLayanan, error)
	TransitionStatus(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error)
}

type CatalogReader interface {
	GetLayanan(id int64) (*catalog.Layanan, error)
}

// CancelGuard reports whether a non-terminal invoice still hangs off the
// transaction. Cancellation is rejected until the invoice is resolved.
type CancelGuard interface {
	HasUnresolvedInvoice(transaksiID int64) (bool, error)
}

// RewardAccruer credits envipoin for a completed transaction.
type RewardAccruer interface {
	CreditCompletion(userID, transaksiID, points int64) error
}

type ActiveServiceUpdater interface {
	SetLayananAktif(userID int64, layanan *string) error
}

type Service struct {
	repo     Repository
	catalogs CatalogReader
	guard    CancelGuard
	rewards  RewardAccruer
	users    ActiveServiceUpdater
	logger   *slog.Logger
}

func NewService(repo Repository, catalogs CatalogReader, guard CancelGuard, rewards RewardAccruer, users ActiveServiceUpdater, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		catalogs: catalogs,
		guard:    guard,
		rewards:  rewards,
		users:    users,
		logger:   logger,
	}
}

func (s *Service) CreateTransaksi(userID int64, dto CreateTransaksiDTO) (*TransaksiLayanan, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	layanan, err := s.catalogs.GetLayanan(dto.LayananID)
	if err != nil {
		return nil, internal.NewNotFoundError("layanan not found", internal.ErrCodeLayananNotFound)
	}
	if !layanan.IsActive {
		return nil, internal.NewValidationError("layanan is not active", internal.ErrCodeValidationFailed)
	}

	t := &TransaksiLayanan{
		UserID:     userID,
		LayananID:  layanan.ID,
		Status:     StatusPending,
		TotalHarga: layanan.Harga,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create transaksi", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create transaksi", err)
	}

	s.logger.Info("transaksi created",
		"transaksi_id", t.ID,
		"user_id", userID,
		"layanan_id", layanan.ID,
		"total_harga", t.TotalHarga)

	return t, nil
}

func (s *Service) GetTransaksi(id int64, ident *internal.Identity) (*TransaksiLayanan, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("transaksi not found", internal.ErrCodeTransaksiNotFound)
	}

	if t.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		s.logger.Warn("transaksi access denied", "transaksi_id", id, "user_id", ident.UserID)
		return nil, internal.ErrRoleNotAllowed
	}

	return t, nil
}

func (s *Service) ListForIdentity(ident *internal.Identity, limit, offset int) ([]*TransaksiLayanan, error) {
	if auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return s.repo.GetAll(limit, offset)
	}
	return s.repo.GetByUserID(ident.UserID, limit, offset)
}

// AttachPaymentEvidence moves pending -> diproses once the owner uploads
// proof of payment.
func (s *Service) AttachPaymentEvidence(id int64, userID int64, evidencePath string) (*TransaksiLayanan, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("transaksi not found", internal.ErrCodeTransaksiNotFound)
	}

	if t.UserID != userID {
		return nil, internal.ErrRoleNotAllowed
	}

	if err := Transitions.Guard(t.Status, StatusDiproses); err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionStatus(id, StatusPending, StatusDiproses, map[string]interface{}{
		"bukti_pembayaran": evidencePath,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to update transaksi", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	s.logger.Info("payment evidence attached", "transaksi_id", id, "user_id", userID)
	return s.reload(id)
}

// Activate moves diproses -> aktif, stamping the service window: start is
// now, end is start plus the catalog duration. The end date is set nowhere
// else.
func (s *Service) Activate(id int64) (*TransaksiLayanan, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("transaksi not found", internal.ErrCodeTransaksiNotFound)
	}

	if err := Transitions.Guard(t.Status, StatusAktif); err != nil {
		return nil, err
	}

	layanan, err := s.catalogs.GetLayanan(t.LayananID)
	if err != nil {
		return nil, internal.NewNotFoundError("layanan not found", internal.ErrCodeLayananNotFound)
	}

	mulai := time.Now()
	selesai := mulai.AddDate(0, 0, layanan.DurasiHari)

	ok, err := s.repo.TransitionStatus(id, StatusDiproses, StatusAktif, map[string]interface{}{
		"tanggal_mulai":   mulai,
		"tanggal_selesai": selesai,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to activate transaksi", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	if err := s.users.SetLayananAktif(t.UserID, &layanan.Nama); err != nil {
		s.logger.Error("failed to set layanan aktif on user", "error", err, "user_id", t.UserID)
	}

	s.logger.Info("transaksi activated",
		"transaksi_id", id,
		"tanggal_mulai", mulai,
		"tanggal_selesai", selesai)

	return s.reload(id)
}

// Complete moves aktif -> selesai and credits envipoin exactly once. The
// credited flag rides in the same conditional update as the status, so a
// retried completion loses the compare-and-swap and never double-credits.
func (s *Service) Complete(id int64) (*TransaksiLayanan, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("transaksi not found", internal.ErrCodeTransaksiNotFound)
	}

	if err := Transitions.Guard(t.Status, StatusSelesai); err != nil {
		return nil, err
	}

	ok, err := s.repo.TransitionStatus(id, StatusAktif, StatusSelesai, map[string]interface{}{
		"envipoin_credited": true,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to complete transaksi", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	if !t.EnvipoinCredited {
		layanan, err := s.catalogs.GetLayanan(t.LayananID)
		if err != nil {
			s.logger.Error("layanan missing during reward accrual", "error", err, "transaksi_id", id)
		} else if layanan.EnvipoinReward > 0 {
			if err := s.rewards.CreditCompletion(t.UserID, t.ID, layanan.EnvipoinReward); err != nil {
				s.logger.Error("reward accrual failed", "error", err, "transaksi_id", id)
			}
		}
	}

	if err := s.users.SetLayananAktif(t.UserID, nil); err != nil {
		s.logger.Error("failed to clear layanan aktif on user", "error", err, "user_id", t.UserID)
	}

	s.logger.Info("transaksi completed", "transaksi_id", id, "user_id", t.UserID)
	return s.reload(id)
}

// Cancel moves a not-yet-active transaction to dibatalkan. A transaction
// with an unresolved invoice cannot be cancelled until the invoice reaches
// a terminal state.
func (s *Service) Cancel(id int64, ident *internal.Identity) (*TransaksiLayanan, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("transaksi not found", internal.ErrCodeTransaksiNotFound)
	}

	if t.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	if err := Transitions.Guard(t.Status, StatusDibatalkan); err != nil {
		return nil, err
	}

	unresolved, err := s.guard.HasUnresolvedInvoice(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to check invoices", err)
	}
	if unresolved {
		return nil, internal.NewConflictError(
			"transaksi has an unresolved invoice; settle or void it first",
			internal.ErrCodeInvoiceUnresolved)
	}

	ok, err := s.repo.TransitionStatus(id, t.Status, StatusDibatalkan, nil)
	if err != nil {
		return nil, internal.NewInternalError("failed to cancel transaksi", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	s.logger.Info("transaksi cancelled", "transaksi_id", id, "by_user", ident.UserID)
	return s.reload(id)
}

func (s *Service) reload(id int64) (*TransaksiLayanan, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to reload transaksi", err)
	}
	return t, nil
}
