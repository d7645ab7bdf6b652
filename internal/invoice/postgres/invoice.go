package postgres

import (
	"time"

	"github.com/enviohq/envio-backend/internal/invoice"
	"gorm.io/gorm"
)

// InvoiceRepository implements invoice.Repository using GORM
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(inv *invoice.Invoice) error {
	return r.db.Create(inv).Error
}

func (r *InvoiceRepository) GetByID(id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.Where("id = ?", id).First(&inv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invoice.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetByUserID(userID int64, limit, offset int) ([]*invoice.Invoice, error) {
	var list []*invoice.Invoice
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *InvoiceRepository) GetAll(limit, offset int) ([]*invoice.Invoice, error) {
	var list []*invoice.Invoice
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *InvoiceRepository) GetByTransaksiID(transaksiID int64) ([]*invoice.Invoice, error) {
	var list []*invoice.Invoice
	err := r.db.Where("transaksi_id = ?", transaksiID).Find(&list).Error
	return list, err
}

func (r *InvoiceRepository) UpdateAmounts(id int64, subtotal, ppn, total int64) (bool, error) {
	res := r.db.Model(&invoice.Invoice{}).
		Where("id = ? AND status_pembayaran = ?", id, invoice.StatusBelumBayar).
		Updates(map[string]interface{}{
			"subtotal":      subtotal,
			"ppn":           ppn,
			"total_tagihan": total,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecordPayment applies status change and amount accumulation in one
// conditional statement. The guard covers jumlah_dibayar as well as the
// status, so two payments racing from the same partial snapshot cannot
// both land and overshoot total_tagihan.
func (r *InvoiceRepository) RecordPayment(id int64, fromStatus, toStatus string, paidSoFar, jumlah int64, paidAt *time.Time) (bool, error) {
	values := map[string]interface{}{
		"status_pembayaran": toStatus,
		"jumlah_dibayar":    gorm.Expr("jumlah_dibayar + ?", jumlah),
		"updated_at":        time.Now(),
	}
	if paidAt != nil {
		values["tanggal_pembayaran"] = *paidAt
	}

	res := r.db.Model(&invoice.Invoice{}).
		Where("id = ? AND status_pembayaran = ? AND jumlah_dibayar = ?", id, fromStatus, paidSoFar).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InvoiceRepository) MarkOverdue(now time.Time) (int64, error) {
	res := r.db.Model(&invoice.Invoice{}).
		Where("status_pembayaran IN ? AND tanggal_jatuh_tempo < ?",
			[]string{invoice.StatusBelumBayar, invoice.StatusPartial}, now).
		Updates(map[string]interface{}{
			"status_pembayaran": invoice.StatusJatuhTempo,
			"updated_at":        now,
		})
	return res.RowsAffected, res.Error
}

func (r *InvoiceRepository) DeleteByTransaksiIDs(transaksiIDs []int64) error {
	if len(transaksiIDs) == 0 {
		return nil
	}
	return r.db.Where("transaksi_id IN ?", transaksiIDs).Delete(&invoice.Invoice{}).Error
}
