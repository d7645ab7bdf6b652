package invoice_test

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/invoice"
	"github.com/enviohq/envio-backend/internal/subscription"
)

func TestInvoice(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Invoice Service Suite")
}

type mockInvoiceRepository struct {
	mu       sync.Mutex
	invoices map[int64]*invoice.Invoice
	nextID   int64

	// staleStatusReads makes GetByID report staleStatus for that many
	// reads, standing in for a write landing right after the read.
	staleStatusReads int
	staleStatus      string

	// readBarrier holds barrierReads readers until all have read, so
	// concurrent callers are guaranteed to share one snapshot.
	readBarrier  *sync.WaitGroup
	barrierReads int
}

func newMockInvoiceRepository() *mockInvoiceRepository {
	return &mockInvoiceRepository{
		invoices: make(map[int64]*invoice.Invoice),
		nextID:   1,
	}
}

func (m *mockInvoiceRepository) Create(inv *invoice.Invoice) error {
	inv.ID = m.nextID
	m.nextID++
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockInvoiceRepository) GetByID(id int64) (*invoice.Invoice, error) {
	m.mu.Lock()
	inv, ok := m.invoices[id]
	if !ok {
		m.mu.Unlock()
		return nil, invoice.ErrNotFound
	}
	copied := *inv
	if m.staleStatusReads > 0 {
		copied.StatusPembayaran = m.staleStatus
		m.staleStatusReads--
	}
	barrier := m.readBarrier
	if m.barrierReads > 0 {
		m.barrierReads--
	} else {
		barrier = nil
	}
	m.mu.Unlock()

	if barrier != nil {
		barrier.Done()
		barrier.Wait()
	}
	return &copied, nil
}

func (m *mockInvoiceRepository) GetByUserID(userID int64, limit, offset int) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice
	for _, inv := range m.invoices {
		if inv.UserID == userID {
			copied := *inv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockInvoiceRepository) GetAll(limit, offset int) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice
	for _, inv := range m.invoices {
		copied := *inv
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockInvoiceRepository) UpdateAmounts(id int64, subtotal, ppn, total int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invoices[id]
	if !ok || inv.StatusPembayaran != invoice.StatusBelumBayar {
		return false, nil
	}
	inv.Subtotal = subtotal
	inv.PPN = ppn
	inv.TotalTagihan = total
	inv.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockInvoiceRepository) RecordPayment(id int64, fromStatus, toStatus string, paidSoFar, jumlah int64, paidAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invoices[id]
	if !ok || inv.StatusPembayaran != fromStatus || inv.JumlahDibayar != paidSoFar {
		return false, nil
	}
	inv.StatusPembayaran = toStatus
	inv.JumlahDibayar += jumlah
	inv.TanggalPembayaran = paidAt
	inv.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockInvoiceRepository) MarkOverdue(now time.Time) (int64, error) {
	var count int64
	for _, inv := range m.invoices {
		if (inv.StatusPembayaran == invoice.StatusBelumBayar || inv.StatusPembayaran == invoice.StatusPartial) &&
			now.After(inv.TanggalJatuhTempo) {
			inv.StatusPembayaran = invoice.StatusJatuhTempo
			count++
		}
	}
	return count, nil
}

type mockTransaksiReader struct {
	owners   map[int64]int64
	statuses map[int64]string
}

func (m *mockTransaksiReader) TransaksiRef(transaksiID int64) (int64, string, error) {
	owner, ok := m.owners[transaksiID]
	if !ok {
		return 0, "", errors.New("transaksi not found")
	}
	return owner, m.statuses[transaksiID], nil
}

var _ = Describe("InvoiceService", func() {
	var (
		service   *invoice.Service
		mockRepo  *mockInvoiceRepository
		transaksi *mockTransaksiReader
	)

	const (
		ownerID     = int64(7)
		transaksiID = int64(11)
	)

	ownerIdent := &internal.Identity{UserID: ownerID, Role: "user"}
	otherIdent := &internal.Identity{UserID: 8, Role: "user"}
	adminIdent := &internal.Identity{UserID: 99, Role: "admin_keuangan"}

	BeforeEach(func() {
		mockRepo = newMockInvoiceRepository()
		transaksi = &mockTransaksiReader{
			owners:   map[int64]int64{transaksiID: ownerID},
			statuses: map[int64]string{transaksiID: subscription.StatusAktif},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = invoice.NewService(mockRepo, transaksi, logger)
	})

	createInvoice := func(subtotal, ppn int64, due time.Time) *invoice.Invoice {
		inv, err := service.CreateInvoice(invoice.CreateInvoiceDTO{
			TransaksiID:       transaksiID,
			Subtotal:          subtotal,
			PPN:               ppn,
			TanggalJatuhTempo: due,
		})
		Expect(err).ToNot(HaveOccurred())
		return inv
	}

	futureDue := time.Now().Add(14 * 24 * time.Hour)
	pastDue := time.Now().Add(-24 * time.Hour)

	Describe("CreateInvoice", func() {
		It("should compute total_tagihan as subtotal plus ppn", func() {
			inv := createInvoice(150000, 16500, futureDue)

			Expect(inv.TotalTagihan).To(Equal(int64(166500)))
			Expect(inv.StatusPembayaran).To(Equal(invoice.StatusBelumBayar))
			Expect(inv.UserID).To(Equal(ownerID))
			Expect(inv.NomorInvoice).To(HavePrefix("INV-"))
		})

		It("should reject an invoice for an unknown transaksi", func() {
			_, err := service.CreateInvoice(invoice.CreateInvoiceDTO{
				TransaksiID:       404,
				Subtotal:          100,
				PPN:               10,
				TanggalJatuhTempo: futureDue,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("GetInvoice", func() {
		It("should derive jatuh_tempo for an unpaid invoice past due", func() {
			inv := createInvoice(100000, 11000, pastDue)

			got, err := service.GetInvoice(inv.ID, ownerIdent)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.StatusPembayaran).To(Equal(invoice.StatusJatuhTempo))

			// the stored row is untouched until the sweep runs
			Expect(mockRepo.invoices[inv.ID].StatusPembayaran).To(Equal(invoice.StatusBelumBayar))
		})

		It("should keep belum_bayar inside the due window", func() {
			inv := createInvoice(100000, 11000, futureDue)

			got, err := service.GetInvoice(inv.ID, ownerIdent)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.StatusPembayaran).To(Equal(invoice.StatusBelumBayar))
		})

		It("should refuse a non-owner without an admin role", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.GetInvoice(inv.ID, otherIdent)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))

			_, err = service.GetInvoice(inv.ID, adminIdent)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("UpdateAmounts", func() {
		It("should recompute the total so the invariant holds", func() {
			inv := createInvoice(100000, 11000, futureDue)

			updated, err := service.UpdateAmounts(inv.ID, invoice.UpdateAmountsDTO{
				Subtotal: 200000,
				PPN:      22000,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.TotalTagihan).To(Equal(updated.Subtotal + updated.PPN))
			Expect(updated.TotalTagihan).To(Equal(int64(222000)))
		})

		It("should refuse edits after a payment landed", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 50000})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.UpdateAmounts(inv.ID, invoice.UpdateAmountsDTO{Subtotal: 1, PPN: 0})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("should conflict when a payment lands between the read and the write", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 50000})
			Expect(err).ToNot(HaveOccurred())

			// the edit still sees belum_bayar, as if it read just before
			// the payment landed
			mockRepo.staleStatus = invoice.StatusBelumBayar
			mockRepo.staleStatusReads = 1

			_, err = service.UpdateAmounts(inv.ID, invoice.UpdateAmountsDTO{Subtotal: 1, PPN: 0})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))

			Expect(mockRepo.invoices[inv.ID].Subtotal).To(Equal(int64(100000)))
			Expect(mockRepo.invoices[inv.ID].TotalTagihan).To(Equal(int64(111000)))
		})
	})

	Describe("Pay", func() {
		It("should move belum_bayar to partial on a partial amount", func() {
			inv := createInvoice(100000, 11000, futureDue)

			paid, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 50000})
			Expect(err).ToNot(HaveOccurred())
			Expect(paid.StatusPembayaran).To(Equal(invoice.StatusPartial))
			Expect(paid.JumlahDibayar).To(Equal(int64(50000)))
			Expect(paid.TanggalPembayaran).To(BeNil())
		})

		It("should allow repeated partial payments", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 30000})
			Expect(err).ToNot(HaveOccurred())

			paid, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 30000})
			Expect(err).ToNot(HaveOccurred())
			Expect(paid.StatusPembayaran).To(Equal(invoice.StatusPartial))
			Expect(paid.JumlahDibayar).To(Equal(int64(60000)))
		})

		It("should settle on full payment and stamp tanggal_pembayaran", func() {
			inv := createInvoice(100000, 11000, futureDue)

			paid, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 111000})
			Expect(err).ToNot(HaveOccurred())
			Expect(paid.StatusPembayaran).To(Equal(invoice.StatusLunas))
			Expect(paid.TanggalPembayaran).ToNot(BeNil())
		})

		It("should settle the remainder after partial payments", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 100000})
			Expect(err).ToNot(HaveOccurred())

			paid, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 11000})
			Expect(err).ToNot(HaveOccurred())
			Expect(paid.StatusPembayaran).To(Equal(invoice.StatusLunas))
		})

		It("should settle an overdue invoice on full payment", func() {
			inv := createInvoice(100000, 11000, pastDue)

			paid, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 111000})
			Expect(err).ToNot(HaveOccurred())
			Expect(paid.StatusPembayaran).To(Equal(invoice.StatusLunas))
		})

		It("should reject an amount beyond the outstanding balance", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 200000})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidAmount))
		})

		It("should refuse settlement while the transaksi is not aktif or selesai", func() {
			transaksi.statuses[transaksiID] = subscription.StatusPending
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 111000})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(internal.ErrCodeSubscriptionNotActive))
		})

		It("should still accept partial payment while the transaksi is pending", func() {
			transaksi.statuses[transaksiID] = subscription.StatusPending
			inv := createInvoice(100000, 11000, futureDue)

			paid, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 10000})
			Expect(err).ToNot(HaveOccurred())
			Expect(paid.StatusPembayaran).To(Equal(invoice.StatusPartial))
		})

		It("should let exactly one of two concurrent partial payments land", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 30000})
			Expect(err).ToNot(HaveOccurred())

			// hold both payers until each has read the same snapshot
			var barrier sync.WaitGroup
			barrier.Add(2)
			mockRepo.readBarrier = &barrier
			mockRepo.barrierReads = 2

			errs := make(chan error, 2)
			for i := 0; i < 2; i++ {
				go func() {
					_, payErr := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 40000})
					errs <- payErr
				}()
			}

			var successes, conflicts int
			for i := 0; i < 2; i++ {
				payErr := <-errs
				if payErr == nil {
					successes++
					continue
				}
				appErr, ok := internal.IsAppError(payErr)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(409))
				conflicts++
			}

			Expect(successes).To(Equal(1))
			Expect(conflicts).To(Equal(1))
			Expect(mockRepo.invoices[inv.ID].JumlahDibayar).To(Equal(int64(70000)))

			// the invoice is still settleable afterwards
			paid, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 41000})
			Expect(err).ToNot(HaveOccurred())
			Expect(paid.StatusPembayaran).To(Equal(invoice.StatusLunas))
		})

		It("should conflict on paying a settled invoice", func() {
			inv := createInvoice(100000, 11000, futureDue)

			_, err := service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 111000})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Pay(inv.ID, ownerIdent, invoice.PayInvoiceDTO{Jumlah: 1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})
	})

	Describe("SweepOverdue", func() {
		It("should persist jatuh_tempo for every unpaid invoice past due", func() {
			overdue := createInvoice(100000, 11000, pastDue)
			current := createInvoice(100000, 11000, futureDue)

			count, err := service.SweepOverdue()
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			Expect(mockRepo.invoices[overdue.ID].StatusPembayaran).To(Equal(invoice.StatusJatuhTempo))
			Expect(mockRepo.invoices[current.ID].StatusPembayaran).To(Equal(invoice.StatusBelumBayar))
		})
	})
})
