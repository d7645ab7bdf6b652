package invoice

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/auth"
	"github.com/enviohq/envio-backend/internal/subscription"
	"github.com/google/uuid"
)

type Repository interface {
	Create(inv *Invoice) error
	GetByID(id int64) (*Invoice, error)
	GetByUserID(userID int64, limit, offset int) ([]*Invoice, error)
	GetAll(limit, offset int) ([]*Invoice, error)
	// UpdateAmounts only applies while the row is still belum_bayar; false
	// means a payment landed since the caller read the invoice.
	UpdateAmounts(id int64, subtotal, ppn, total int64) (bool, error)
	// RecordPayment is a compare-and-swap guarded on the current payment
	// status and the amount already paid, accumulating jumlah_dibayar in
	// the same statement. Two payments racing from the same snapshot can
	// never both land.
	RecordPayment(id int64, fromStatus, toStatus string, paidSoFar, jumlah int64, paidAt *time.Time) (bool, error)
	// MarkOverdue persists jatuh_tempo for unpaid invoices past due.
	MarkOverdue(now time.Time) (int64, error)
}

// TransaksiReader resolves the owning transaction; invoice creation and
// settlement both depend on its state.
type TransaksiReader interface {
	TransaksiRef(transaksiID int64) (userID int64, status string, err error)
}

type Service struct {
	repo      Repository
	transaksi TransaksiReader
	logger    *slog.Logger
}

func NewService(repo Repository, transaksi TransaksiReader, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		transaksi: transaksi,
		logger:    logger,
	}
}

// CreateInvoice requires an existing transaction row; the invoice inherits
// its owner. total_tagihan is computed, never accepted from the caller.
func (s *Service) CreateInvoice(dto CreateInvoiceDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	ownerID, _, err := s.transaksi.TransaksiRef(dto.TransaksiID)
	if err != nil {
		return nil, internal.NewNotFoundError("transaksi not found", internal.ErrCodeTransaksiNotFound)
	}

	inv := &Invoice{
		TransaksiID:       dto.TransaksiID,
		UserID:            ownerID,
		NomorInvoice:      fmt.Sprintf("INV-%s", uuid.NewString()),
		Subtotal:          dto.Subtotal,
		PPN:               dto.PPN,
		TotalTagihan:      dto.Subtotal + dto.PPN,
		StatusPembayaran:  StatusBelumBayar,
		TanggalJatuhTempo: dto.TanggalJatuhTempo,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := s.repo.Create(inv); err != nil {
		s.logger.Error("failed to create invoice", "error", err, "transaksi_id", dto.TransaksiID)
		return nil, internal.NewInternalError("failed to create invoice", err)
	}

	s.logger.Info("invoice created",
		"invoice_id", inv.ID,
		"transaksi_id", inv.TransaksiID,
		"total_tagihan", inv.TotalTagihan)

	return inv, nil
}

func (s *Service) GetInvoice(id int64, ident *internal.Identity) (*Invoice, error) {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("invoice not found", internal.ErrCodeInvoiceNotFound)
	}

	if inv.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	// Escalation is derived at read time; the sweep persists it later.
	inv.StatusPembayaran = inv.EffectiveStatus(time.Now())
	return inv, nil
}

func (s *Service) ListForIdentity(ident *internal.Identity, limit, offset int) ([]*Invoice, error) {
	var (
		list []*Invoice
		err  error
	)
	if auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		list, err = s.repo.GetAll(limit, offset)
	} else {
		list, err = s.repo.GetByUserID(ident.UserID, limit, offset)
	}
	if err != nil {
		return nil, internal.NewInternalError("failed to list invoices", err)
	}

	now := time.Now()
	for _, inv := range list {
		inv.StatusPembayaran = inv.EffectiveStatus(now)
	}
	return list, nil
}

// UpdateAmounts edits subtotal and ppn before any payment has landed and
// recomputes total_tagihan so the invariant holds after the edit.
func (s *Service) UpdateAmounts(id int64, dto UpdateAmountsDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("invoice not found", internal.ErrCodeInvoiceNotFound)
	}

	if inv.StatusPembayaran != StatusBelumBayar {
		return nil, internal.NewConflictError(
			"invoice amounts can only be edited before payment",
			internal.ErrCodeIllegalTransition)
	}

	total := dto.Subtotal + dto.PPN
	ok, err := s.repo.UpdateAmounts(id, dto.Subtotal, dto.PPN, total)
	if err != nil {
		s.logger.Error("failed to update invoice amounts", "error", err, "invoice_id", id)
		return nil, internal.NewInternalError("failed to update invoice amounts", err)
	}
	if !ok {
		return nil, internal.NewConflictError(
			"invoice amounts can only be edited before payment",
			internal.ErrCodeIllegalTransition)
	}

	s.logger.Info("invoice amounts updated", "invoice_id", id, "total_tagihan", total)
	return s.repo.GetByID(id)
}

// Pay records a payment. Full payment from any non-lunas state settles the
// invoice; a smaller amount moves belum_bayar to partial. Settlement
// requires the owning transaction to be aktif or selesai.
func (s *Service) Pay(id int64, ident *internal.Identity, dto PayInvoiceDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("invoice not found", internal.ErrCodeInvoiceNotFound)
	}

	if inv.UserID != ident.UserID && !auth.Allow(auth.AdminRoles, auth.Role(ident.Role)) {
		return nil, internal.ErrRoleNotAllowed
	}

	now := time.Now()
	current := inv.EffectiveStatus(now)
	if current == StatusLunas {
		return nil, internal.NewConflictError("invoice is already settled", internal.ErrCodeIllegalTransition)
	}

	outstanding := inv.TotalTagihan - inv.JumlahDibayar
	if dto.Jumlah > outstanding {
		return nil, internal.NewValidationError("jumlah exceeds outstanding amount", internal.ErrCodeInvalidAmount)
	}

	var (
		toStatus = StatusPartial
		paidAt   *time.Time
	)
	if dto.Jumlah == outstanding {
		toStatus = StatusLunas
		paidAt = &now
	}

	if toStatus == StatusLunas {
		_, trxStatus, err := s.transaksi.TransaksiRef(inv.TransaksiID)
		if err != nil {
			return nil, internal.NewNotFoundError("transaksi not found", internal.ErrCodeTransaksiNotFound)
		}
		if trxStatus != subscription.StatusAktif && trxStatus != subscription.StatusSelesai {
			return nil, internal.NewConflictError(
				"invoice can only be settled while the transaksi is aktif or selesai",
				internal.ErrCodeSubscriptionNotActive)
		}
	}

	if err := Transitions.Guard(current, toStatus); err != nil {
		// A repeated partial payment keeps the invoice partial.
		if !(current == StatusPartial && toStatus == StatusPartial) {
			return nil, err
		}
	}

	ok, err := s.repo.RecordPayment(id, inv.StatusPembayaran, toStatus, inv.JumlahDibayar, dto.Jumlah, paidAt)
	if err != nil {
		return nil, internal.NewInternalError("failed to record payment", err)
	}
	if !ok {
		return nil, internal.ErrStaleState
	}

	s.logger.Info("payment recorded",
		"invoice_id", id,
		"jumlah", dto.Jumlah,
		"status", toStatus)

	return s.repo.GetByID(id)
}

// SweepOverdue persists the lazily-derived jatuh_tempo state in bulk.
func (s *Service) SweepOverdue() (int64, error) {
	count, err := s.repo.MarkOverdue(time.Now())
	if err != nil {
		s.logger.Error("overdue sweep failed", "error", err)
		return 0, internal.NewInternalError("overdue sweep failed", err)
	}

	s.logger.Info("overdue sweep completed", "invoices_marked", count)
	return count, nil
}
