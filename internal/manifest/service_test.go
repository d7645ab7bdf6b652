package manifest_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/collection"
	"github.com/enviohq/envio-backend/internal/manifest"
)

func TestManifest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Manifest Service Suite")
}

type mockManifestRepository struct {
	manifests map[int64]*manifest.ManifestElektronik
	byRun     map[int64]int64
	nextID    int64
}

func newMockManifestRepository() *mockManifestRepository {
	return &mockManifestRepository{
		manifests: make(map[int64]*manifest.ManifestElektronik),
		byRun:     make(map[int64]int64),
		nextID:    1,
	}
}

func (m *mockManifestRepository) Create(mf *manifest.ManifestElektronik) error {
	mf.ID = m.nextID
	m.nextID++
	m.manifests[mf.ID] = mf
	m.byRun[mf.PengangkutanID] = mf.ID
	return nil
}

func (m *mockManifestRepository) GetByID(id int64) (*manifest.ManifestElektronik, error) {
	mf, ok := m.manifests[id]
	if !ok {
		return nil, manifest.ErrNotFound
	}
	copied := *mf
	return &copied, nil
}

func (m *mockManifestRepository) GetByUserID(userID int64, limit, offset int) ([]*manifest.ManifestElektronik, error) {
	var out []*manifest.ManifestElektronik
	for _, mf := range m.manifests {
		if mf.UserID == userID {
			copied := *mf
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockManifestRepository) GetAll(limit, offset int) ([]*manifest.ManifestElektronik, error) {
	var out []*manifest.ManifestElektronik
	for _, mf := range m.manifests {
		copied := *mf
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockManifestRepository) ExistsForRun(pengangkutanID int64) (bool, error) {
	_, ok := m.byRun[pengangkutanID]
	return ok, nil
}

func (m *mockManifestRepository) TransitionStatus(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error) {
	mf, ok := m.manifests[id]
	if !ok || mf.Status != fromStatus {
		return false, nil
	}
	mf.Status = toStatus
	for col, val := range updates {
		switch col {
		case "disetujui_oleh":
			if v, ok := val.(int64); ok {
				mf.DisetujuiOleh = &v
			}
		case "tanggal_persetujuan":
			if v, ok := val.(time.Time); ok {
				mf.TanggalPersetujuan = &v
			}
		case "catatan_persetujuan":
			if v, ok := val.(string); ok {
				mf.CatatanPersetujuan = &v
			}
		}
	}
	mf.UpdatedAt = time.Now()
	return true, nil
}

type mockRunReader struct {
	owners   map[int64]int64
	statuses map[int64]string
}

func (m *mockRunReader) RunRef(pengangkutanID int64) (int64, string, error) {
	owner, ok := m.owners[pengangkutanID]
	if !ok {
		return 0, "", collection.ErrNotFound
	}
	return owner, m.statuses[pengangkutanID], nil
}

var _ = Describe("ManifestService", func() {
	var (
		service  *manifest.Service
		mockRepo *mockManifestRepository
		runs     *mockRunReader
	)

	const (
		ownerID = int64(7)
		runID   = int64(21)
	)

	ownerIdent := &internal.Identity{UserID: ownerID, Role: "user"}
	otherIdent := &internal.Identity{UserID: 8, Role: "user"}
	adminIdent := &internal.Identity{UserID: 99, Role: "admin_keuangan"}
	superIdent := &internal.Identity{UserID: 100, Role: "superadmin"}

	BeforeEach(func() {
		mockRepo = newMockManifestRepository()
		runs = &mockRunReader{
			owners:   map[int64]int64{runID: ownerID},
			statuses: map[int64]string{runID: collection.StatusSelesai},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = manifest.NewService(mockRepo, runs, logger)
	})

	createDraft := func() *manifest.ManifestElektronik {
		m, err := service.CreateManifest(ownerID, manifest.CreateManifestDTO{
			PengangkutanID:   runID,
			JenisLimbah:      "B3",
			VolumeKg:         120.5,
			LokasiPembuangan: "TPA Bantar Gebang",
		})
		Expect(err).ToNot(HaveOccurred())
		return m
	}

	submit := func() *manifest.ManifestElektronik {
		m := createDraft()
		submitted, err := service.Submit(m.ID, ownerIdent)
		Expect(err).ToNot(HaveOccurred())
		return submitted
	}

	Describe("CreateManifest", func() {
		It("should create a draft tied to a completed run", func() {
			m := createDraft()
			Expect(m.Status).To(Equal(manifest.StatusDraft))
			Expect(m.PengangkutanID).To(Equal(runID))
		})

		It("should refuse a run that is not selesai", func() {
			runs.statuses[runID] = collection.StatusDalamPerjalanan

			_, err := service.CreateManifest(ownerID, manifest.CreateManifestDTO{
				PengangkutanID: runID,
				JenisLimbah:    "B3",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(internal.ErrCodeRunNotCompleted))
		})

		It("should refuse a second manifest for the same run", func() {
			createDraft()

			_, err := service.CreateManifest(ownerID, manifest.CreateManifestDTO{
				PengangkutanID: runID,
				JenisLimbah:    "B3",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeManifestExists))
		})

		It("should refuse a run owned by someone else", func() {
			_, err := service.CreateManifest(8, manifest.CreateManifestDTO{
				PengangkutanID: runID,
				JenisLimbah:    "B3",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})
	})

	Describe("Submit", func() {
		It("should move draft to diajukan", func() {
			submitted := submit()
			Expect(submitted.Status).To(Equal(manifest.StatusDiajukan))
		})

		It("should conflict on a second submission", func() {
			submitted := submit()

			_, err := service.Submit(submitted.ID, ownerIdent)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})
	})

	Describe("Decide", func() {
		It("should record an approval with the deciding superadmin", func() {
			submitted := submit()
			catatan := "dokumen lengkap"

			decided, err := service.Decide(submitted.ID, superIdent, manifest.DecisionDTO{
				Disetujui: true,
				Catatan:   &catatan,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(decided.Status).To(Equal(manifest.StatusDisetujui))
			Expect(decided.DisetujuiOleh).ToNot(BeNil())
			Expect(*decided.DisetujuiOleh).To(Equal(superIdent.UserID))
			Expect(decided.TanggalPersetujuan).ToNot(BeNil())
			Expect(decided.CatatanPersetujuan).ToNot(BeNil())
			Expect(*decided.CatatanPersetujuan).To(Equal("dokumen lengkap"))
		})

		It("should record a rejection as terminal without approval metadata", func() {
			submitted := submit()

			decided, err := service.Decide(submitted.ID, superIdent, manifest.DecisionDTO{Disetujui: false})
			Expect(err).ToNot(HaveOccurred())
			Expect(decided.Status).To(Equal(manifest.StatusDitolak))
			Expect(manifest.Transitions.Terminal(decided.Status)).To(BeTrue())

			Expect(decided.DisetujuiOleh).To(BeNil())
			Expect(decided.TanggalPersetujuan).To(BeNil())
		})

		It("should keep the rejection note", func() {
			submitted := submit()
			catatan := "volume tidak sesuai"

			decided, err := service.Decide(submitted.ID, superIdent, manifest.DecisionDTO{
				Disetujui: false,
				Catatan:   &catatan,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(decided.CatatanPersetujuan).ToNot(BeNil())
			Expect(*decided.CatatanPersetujuan).To(Equal("volume tidak sesuai"))
		})

		It("should refuse a decision from admin_keuangan and leave the manifest untouched", func() {
			submitted := submit()

			_, err := service.Decide(submitted.ID, adminIdent, manifest.DecisionDTO{Disetujui: true})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))

			Expect(mockRepo.manifests[submitted.ID].Status).To(Equal(manifest.StatusDiajukan))
		})

		It("should conflict on deciding a draft", func() {
			m := createDraft()

			_, err := service.Decide(m.ID, superIdent, manifest.DecisionDTO{Disetujui: true})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})
	})

	Describe("Complete", func() {
		approve := func() *manifest.ManifestElektronik {
			submitted := submit()
			_, err := service.Decide(submitted.ID, superIdent, manifest.DecisionDTO{Disetujui: true})
			Expect(err).ToNot(HaveOccurred())
			return submitted
		}

		It("should close an approved manifest for its owner", func() {
			approved := approve()

			completed, err := service.Complete(approved.ID, ownerIdent)
			Expect(err).ToNot(HaveOccurred())
			Expect(completed.Status).To(Equal(manifest.StatusSelesai))
		})

		It("should close an approved manifest for an admin", func() {
			approved := approve()

			completed, err := service.Complete(approved.ID, adminIdent)
			Expect(err).ToNot(HaveOccurred())
			Expect(completed.Status).To(Equal(manifest.StatusSelesai))
		})

		It("should refuse completion from an unrelated user and leave the manifest untouched", func() {
			approved := approve()

			_, err := service.Complete(approved.ID, otherIdent)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))

			Expect(mockRepo.manifests[approved.ID].Status).To(Equal(manifest.StatusDisetujui))
		})

		It("should conflict on completing a rejected manifest", func() {
			submitted := submit()
			_, err := service.Decide(submitted.ID, superIdent, manifest.DecisionDTO{Disetujui: false})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Complete(submitted.ID, ownerIdent)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})
	})
})
