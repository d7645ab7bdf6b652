// Package coordinator wires cross-entity reads and cascades that no single
// domain package may own without importing its peers.
package coordinator

import (
	"errors"
	"log/slog"
	"time"

	"github.com/enviohq/envio-backend/internal/collection"
	"github.com/enviohq/envio-backend/internal/invoice"
	"github.com/enviohq/envio-backend/internal/subscription"
)

type TransaksiStore interface {
	GetByID(id int64) (*subscription.TransaksiLayanan, error)
	CountByLayananID(layananID int64) (int64, error)
	IDsByUserID(userID int64) ([]int64, error)
	DeleteByUserID(userID int64) error
}

type InvoiceStore interface {
	GetByTransaksiID(transaksiID int64) ([]*invoice.Invoice, error)
	DeleteByTransaksiIDs(transaksiIDs []int64) error
}

type PengangkutanStore interface {
	GetByID(id int64) (*collection.RiwayatPengangkutan, error)
	IDsByUserID(userID int64) ([]int64, error)
	DeleteByUserID(userID int64) error
}

type ManifestStore interface {
	DeleteByRunIDs(pengangkutanIDs []int64) error
}

type DokumenStore interface {
	DeleteByUserID(userID int64) error
}

// Coordinator satisfies the narrow cross-entity interfaces each domain
// service declares: subscription.CancelGuard, invoice.TransaksiReader,
// manifest.RunReader, catalog.ReferenceChecker and user.Cascader.
type Coordinator struct {
	transaksi    TransaksiStore
	invoices     InvoiceStore
	pengangkutan PengangkutanStore
	manifests    ManifestStore
	dokumen      DokumenStore
	logger       *slog.Logger
}

func New(
	transaksi TransaksiStore,
	invoices InvoiceStore,
	pengangkutan PengangkutanStore,
	manifests ManifestStore,
	dokumen DokumenStore,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		transaksi:    transaksi,
		invoices:     invoices,
		pengangkutan: pengangkutan,
		manifests:    manifests,
		dokumen:      dokumen,
		logger:       logger,
	}
}

// HasUnresolvedInvoice reports whether any invoice tied to the transaksi
// still awaits payment inside its due window. The derived status is used so
// an unswept overdue invoice does not block cancellation.
func (c *Coordinator) HasUnresolvedInvoice(transaksiID int64) (bool, error) {
	invoices, err := c.invoices.GetByTransaksiID(transaksiID)
	if err != nil {
		return false, err
	}
	now := time.Now()
	for _, inv := range invoices {
		if !inv.Resolved(now) {
			return true, nil
		}
	}
	return false, nil
}

func (c *Coordinator) TransaksiRef(transaksiID int64) (int64, string, error) {
	t, err := c.transaksi.GetByID(transaksiID)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return 0, "", subscription.ErrNotFound
		}
		return 0, "", err
	}
	return t.UserID, t.Status, nil
}

func (c *Coordinator) RunRef(pengangkutanID int64) (int64, string, error) {
	run, err := c.pengangkutan.GetByID(pengangkutanID)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			return 0, "", collection.ErrNotFound
		}
		return 0, "", err
	}
	return run.UserID, run.Status, nil
}

func (c *Coordinator) LayananIsReferenced(layananID int64) (bool, error) {
	count, err := c.transaksi.CountByLayananID(layananID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteUserCascade removes everything owned by the user in dependency
// order: invoices before their transaksi, manifests before their runs.
func (c *Coordinator) DeleteUserCascade(userID int64) error {
	transaksiIDs, err := c.transaksi.IDsByUserID(userID)
	if err != nil {
		return err
	}
	if len(transaksiIDs) > 0 {
		if err := c.invoices.DeleteByTransaksiIDs(transaksiIDs); err != nil {
			return err
		}
	}
	if err := c.transaksi.DeleteByUserID(userID); err != nil {
		return err
	}

	runIDs, err := c.pengangkutan.IDsByUserID(userID)
	if err != nil {
		return err
	}
	if len(runIDs) > 0 {
		if err := c.manifests.DeleteByRunIDs(runIDs); err != nil {
			return err
		}
	}
	if err := c.pengangkutan.DeleteByUserID(userID); err != nil {
		return err
	}

	if err := c.dokumen.DeleteByUserID(userID); err != nil {
		return err
	}

	c.logger.Info("user data cascade deleted",
		"user_id", userID,
		"transaksi_count", len(transaksiIDs),
		"pengangkutan_count", len(runIDs))
	return nil
}
