package collection_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/collection"
)

func TestCollection(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Collection Service Suite")
}

type mockPengangkutanRepository struct {
	runs   map[int64]*collection.RiwayatPengangkutan
	nextID int64
}

func newMockPengangkutanRepository() *mockPengangkutanRepository {
	return &mockPengangkutanRepository{
		runs:   make(map[int64]*collection.RiwayatPengangkutan),
		nextID: 1,
	}
}

func (m *mockPengangkutanRepository) Create(run *collection.RiwayatPengangkutan) error {
	run.ID = m.nextID
	m.nextID++
	m.runs[run.ID] = run
	return nil
}

func (m *mockPengangkutanRepository) GetByID(id int64) (*collection.RiwayatPengangkutan, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, collection.ErrNotFound
	}
	copied := *run
	return &copied, nil
}

func (m *mockPengangkutanRepository) GetByUserID(userID int64, limit, offset int) ([]*collection.RiwayatPengangkutan, error) {
	var out []*collection.RiwayatPengangkutan
	for _, run := range m.runs {
		if run.UserID == userID {
			copied := *run
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockPengangkutanRepository) GetAll(limit, offset int) ([]*collection.RiwayatPengangkutan, error) {
	var out []*collection.RiwayatPengangkutan
	for _, run := range m.runs {
		copied := *run
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockPengangkutanRepository) TransitionStatus(id int64, fromStatus, toStatus string) (bool, error) {
	run, ok := m.runs[id]
	if !ok || run.Status != fromStatus {
		return false, nil
	}
	run.Status = toStatus
	run.UpdatedAt = time.Now()
	return true, nil
}

var _ = Describe("CollectionService", func() {
	var (
		service  *collection.Service
		mockRepo *mockPengangkutanRepository
	)

	const ownerID = int64(7)

	ownerIdent := &internal.Identity{UserID: ownerID, Role: "user"}
	otherIdent := &internal.Identity{UserID: 8, Role: "user"}
	adminIdent := &internal.Identity{UserID: 99, Role: "admin_keuangan"}

	BeforeEach(func() {
		mockRepo = newMockPengangkutanRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = collection.NewService(mockRepo, logger)
	})

	schedule := func() *collection.RiwayatPengangkutan {
		run, err := service.CreatePengangkutan(ownerID, collection.CreatePengangkutanDTO{
			AlamatPenjemputan: "Jl. Melati No. 3, Bekasi",
			JenisSampah:       "organik",
			BeratKg:           12.5,
			JadwalPenjemputan: time.Now().Add(48 * time.Hour),
		})
		Expect(err).ToNot(HaveOccurred())
		return run
	}

	Describe("CreatePengangkutan", func() {
		It("should schedule a run with a tracking number", func() {
			run := schedule()
			Expect(run.Status).To(Equal(collection.StatusTerjadwal))
			Expect(run.NomorTracking).ToNot(BeEmpty())
		})

		It("should reject a missing pickup address", func() {
			_, err := service.CreatePengangkutan(ownerID, collection.CreatePengangkutanDTO{
				JadwalPenjemputan: time.Now(),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("UpdateStatus", func() {
		It("should let an admin progress the run to completion", func() {
			run := schedule()

			moving, err := service.UpdateStatus(run.ID, adminIdent, collection.UpdateStatusDTO{
				Status: collection.StatusDalamPerjalanan,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(moving.Status).To(Equal(collection.StatusDalamPerjalanan))

			done, err := service.UpdateStatus(run.ID, adminIdent, collection.UpdateStatusDTO{
				Status: collection.StatusSelesai,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(done.Status).To(Equal(collection.StatusSelesai))
		})

		It("should refuse progress transitions from the owner", func() {
			run := schedule()

			_, err := service.UpdateStatus(run.ID, ownerIdent, collection.UpdateStatusDTO{
				Status: collection.StatusDalamPerjalanan,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})

		It("should let the owner cancel while still terjadwal", func() {
			run := schedule()

			cancelled, err := service.UpdateStatus(run.ID, ownerIdent, collection.UpdateStatusDTO{
				Status: collection.StatusDibatalkan,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(cancelled.Status).To(Equal(collection.StatusDibatalkan))
		})

		It("should refuse cancellation from an unrelated user", func() {
			run := schedule()

			_, err := service.UpdateStatus(run.ID, otherIdent, collection.UpdateStatusDTO{
				Status: collection.StatusDibatalkan,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})

		It("should conflict on cancelling a run already underway", func() {
			run := schedule()

			_, err := service.UpdateStatus(run.ID, adminIdent, collection.UpdateStatusDTO{
				Status: collection.StatusDalamPerjalanan,
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.UpdateStatus(run.ID, ownerIdent, collection.UpdateStatusDTO{
				Status: collection.StatusDibatalkan,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})

		It("should conflict on skipping dalam_perjalanan", func() {
			run := schedule()

			_, err := service.UpdateStatus(run.ID, adminIdent, collection.UpdateStatusDTO{
				Status: collection.StatusSelesai,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})
	})
})
