// Package dashboard aggregates per-role summary figures with raw SQL.
package dashboard

import (
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/enviohq/envio-backend/internal"
)

type UserSummary struct {
	Envipoin           int64   `json:"envipoin" db:"envipoin"`
	LayananAktif       *string `json:"layanan_aktif" db:"layanan_aktif"`
	TransaksiAktif     int64   `json:"transaksi_aktif" db:"transaksi_aktif"`
	TransaksiSelesai   int64   `json:"transaksi_selesai" db:"transaksi_selesai"`
	TagihanBelumLunas  int64   `json:"tagihan_belum_lunas" db:"tagihan_belum_lunas"`
	PengangkutanJadwal int64   `json:"pengangkutan_terjadwal" db:"pengangkutan_terjadwal"`
}

type AdminSummary struct {
	TransaksiPending  int64 `json:"transaksi_pending" db:"transaksi_pending"`
	TransaksiDiproses int64 `json:"transaksi_diproses" db:"transaksi_diproses"`
	TransaksiAktif    int64 `json:"transaksi_aktif" db:"transaksi_aktif"`
	InvoiceBelumBayar int64 `json:"invoice_belum_bayar" db:"invoice_belum_bayar"`
	InvoiceJatuhTempo int64 `json:"invoice_jatuh_tempo" db:"invoice_jatuh_tempo"`
	TotalTagihan      int64 `json:"total_tagihan" db:"total_tagihan"`
	TotalDibayar      int64 `json:"total_dibayar" db:"total_dibayar"`
}

type SuperadminSummary struct {
	TotalUsers       int64 `json:"total_users" db:"total_users"`
	TotalAdmins      int64 `json:"total_admins" db:"total_admins"`
	ManifestDiajukan int64 `json:"manifest_diajukan" db:"manifest_diajukan"`
	ManifestDisetujui int64 `json:"manifest_disetujui" db:"manifest_disetujui"`
	ManifestDitolak  int64 `json:"manifest_ditolak" db:"manifest_ditolak"`
}

type Service struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewService(db *sqlx.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) UserSummary(userID int64) (*UserSummary, error) {
	var out UserSummary

	err := s.db.Get(&out, `
		SELECT
			u.envipoin,
			u.layanan_aktif,
			(SELECT COUNT(*) FROM transaksi_layanan t WHERE t.user_id = u.id AND t.status = 'aktif')   AS transaksi_aktif,
			(SELECT COUNT(*) FROM transaksi_layanan t WHERE t.user_id = u.id AND t.status = 'selesai') AS transaksi_selesai,
			(SELECT COUNT(*) FROM invoices i WHERE i.user_id = u.id AND i.status_pembayaran NOT IN ('lunas')) AS tagihan_belum_lunas,
			(SELECT COUNT(*) FROM riwayat_pengangkutan p WHERE p.user_id = u.id AND p.status = 'terjadwal')   AS pengangkutan_terjadwal
		FROM users u
		WHERE u.id = $1`, userID)
	if err != nil {
		s.logger.Error("user summary query failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to load dashboard", err)
	}
	return &out, nil
}

func (s *Service) AdminSummary() (*AdminSummary, error) {
	var out AdminSummary

	err := s.db.Get(&out, `
		SELECT
			(SELECT COUNT(*) FROM transaksi_layanan WHERE status = 'pending')  AS transaksi_pending,
			(SELECT COUNT(*) FROM transaksi_layanan WHERE status = 'diproses') AS transaksi_diproses,
			(SELECT COUNT(*) FROM transaksi_layanan WHERE status = 'aktif')    AS transaksi_aktif,
			(SELECT COUNT(*) FROM invoices WHERE status_pembayaran = 'belum_bayar') AS invoice_belum_bayar,
			(SELECT COUNT(*) FROM invoices WHERE status_pembayaran = 'jatuh_tempo') AS invoice_jatuh_tempo,
			(SELECT COALESCE(SUM(total_tagihan), 0) FROM invoices)  AS total_tagihan,
			(SELECT COALESCE(SUM(jumlah_dibayar), 0) FROM invoices) AS total_dibayar`)
	if err != nil {
		s.logger.Error("admin summary query failed", "error", err)
		return nil, internal.NewInternalError("failed to load dashboard", err)
	}
	return &out, nil
}

func (s *Service) SuperadminSummary() (*SuperadminSummary, error) {
	var out SuperadminSummary

	err := s.db.Get(&out, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'user') AS total_users,
			(SELECT COUNT(*) FROM users WHERE role IN ('admin_keuangan', 'superadmin')) AS total_admins,
			(SELECT COUNT(*) FROM manifest_elektronik WHERE status = 'diajukan')  AS manifest_diajukan,
			(SELECT COUNT(*) FROM manifest_elektronik WHERE status = 'disetujui') AS manifest_disetujui,
			(SELECT COUNT(*) FROM manifest_elektronik WHERE status = 'ditolak')   AS manifest_ditolak`)
	if err != nil {
		s.logger.Error("superadmin summary query failed", "error", err)
		return nil, internal.NewInternalError("failed to load dashboard", err)
	}
	return &out, nil
}
