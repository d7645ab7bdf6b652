package catalog_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/catalog"
)

func TestCatalog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Service Suite")
}

type mockLayananRepository struct {
	layanan map[int64]*catalog.Layanan
	deleted []int64
	nextID  int64
}

func newMockLayananRepository() *mockLayananRepository {
	return &mockLayananRepository{
		layanan: make(map[int64]*catalog.Layanan),
		nextID:  1,
	}
}

func (m *mockLayananRepository) Create(l *catalog.Layanan) error {
	l.ID = m.nextID
	m.nextID++
	m.layanan[l.ID] = l
	return nil
}

func (m *mockLayananRepository) GetByID(id int64) (*catalog.Layanan, error) {
	l, ok := m.layanan[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return l, nil
}

func (m *mockLayananRepository) GetActive() ([]*catalog.Layanan, error) {
	var out []*catalog.Layanan
	for _, l := range m.layanan {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLayananRepository) Delete(id int64) error {
	delete(m.layanan, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockReferenceChecker struct {
	referenced map[int64]bool
}

func (m *mockReferenceChecker) LayananIsReferenced(layananID int64) (bool, error) {
	return m.referenced[layananID], nil
}

var _ = Describe("CatalogService", func() {
	var (
		service  *catalog.Service
		mockRepo *mockLayananRepository
		refs     *mockReferenceChecker
	)

	BeforeEach(func() {
		mockRepo = newMockLayananRepository()
		refs = &mockReferenceChecker{referenced: make(map[int64]bool)}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = catalog.NewService(mockRepo, refs, logger)
	})

	Describe("CreateLayanan", func() {
		It("should create an active catalog entry", func() {
			l, err := service.CreateLayanan(catalog.CreateLayananDTO{
				Nama:           "Bulanan Rumah Tangga",
				Harga:          150000,
				DurasiHari:     30,
				EnvipoinReward: 100,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(l.IsActive).To(BeTrue())
			Expect(l.ID).To(BeNumerically(">", 0))
		})

		It("should reject a non-positive price", func() {
			_, err := service.CreateLayanan(catalog.CreateLayananDTO{
				Nama:       "Gratis",
				Harga:      0,
				DurasiHari: 30,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("DeleteLayanan", func() {
		It("should delete an unreferenced entry", func() {
			l, err := service.CreateLayanan(catalog.CreateLayananDTO{
				Nama: "Bulanan", Harga: 150000, DurasiHari: 30,
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteLayanan(l.ID)).To(Succeed())
			Expect(mockRepo.deleted).To(ContainElement(l.ID))
		})

		It("should reject deleting an entry referenced by transactions", func() {
			l, err := service.CreateLayanan(catalog.CreateLayananDTO{
				Nama: "Bulanan", Harga: 150000, DurasiHari: 30,
			})
			Expect(err).ToNot(HaveOccurred())
			refs.referenced[l.ID] = true

			err = service.DeleteLayanan(l.ID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(internal.ErrCodeLayananInUse))
			Expect(mockRepo.deleted).To(BeEmpty())
		})

		It("should report an unknown entry as not found", func() {
			err := service.DeleteLayanan(42)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})
})
