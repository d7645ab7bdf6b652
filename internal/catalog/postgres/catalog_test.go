package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/enviohq/envio-backend/internal/catalog"
	catalogPostgres "github.com/enviohq/envio-backend/internal/catalog/postgres"
)

func TestCatalogPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Postgres Suite")
}

// SQLiteLayanan mirrors the layanan table without the postgres-only
// column defaults so AutoMigrate works against SQLite.
type SQLiteLayanan struct {
	ID             int64     `gorm:"primaryKey"`
	Nama           string    `gorm:"column:nama;not null"`
	Deskripsi      string    `gorm:"column:deskripsi"`
	Harga          int64     `gorm:"column:harga;not null"`
	DurasiHari     int       `gorm:"column:durasi_hari;not null"`
	EnvipoinReward int64     `gorm:"column:envipoin_reward;default:0"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (SQLiteLayanan) TableName() string {
	return "layanan"
}

var _ = Describe("Layanan Repository", func() {
	var (
		db   *gorm.DB
		repo *catalogPostgres.LayananRepository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteLayanan{})
		Expect(err).NotTo(HaveOccurred())

		repo = catalogPostgres.NewLayananRepository(db)
	})

	seed := func(nama string, harga int64, active bool) *catalog.Layanan {
		l := &catalog.Layanan{
			Nama:           nama,
			Harga:          harga,
			DurasiHari:     30,
			EnvipoinReward: 100,
			IsActive:       active,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		Expect(repo.Create(l)).To(Succeed())
		return l
	}

	Describe("Create", func() {
		It("should persist a layanan and assign an ID", func() {
			l := seed("Langganan Bulanan", 150000, true)
			Expect(l.ID).To(BeNumerically(">", 0))
		})
	})

	Describe("GetByID", func() {
		It("should retrieve a stored layanan", func() {
			l := seed("Langganan Bulanan", 150000, true)

			got, err := repo.GetByID(l.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Nama).To(Equal("Langganan Bulanan"))
			Expect(got.Harga).To(Equal(int64(150000)))
		})

		It("should map a missing row to ErrNotFound", func() {
			_, err := repo.GetByID(999)
			Expect(err).To(Equal(catalog.ErrNotFound))
		})
	})

	Describe("GetActive", func() {
		It("should return only active entries ordered by price", func() {
			seed("Langganan Tahunan", 1500000, true)
			seed("Langganan Bulanan", 150000, true)
			seed("Paket Lama", 50000, false)

			active, err := repo.GetActive()
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(HaveLen(2))
			Expect(active[0].Nama).To(Equal("Langganan Bulanan"))
			Expect(active[1].Nama).To(Equal("Langganan Tahunan"))
		})
	})

	Describe("Delete", func() {
		It("should remove the row", func() {
			l := seed("Langganan Bulanan", 150000, true)

			Expect(repo.Delete(l.ID)).To(Succeed())

			_, err := repo.GetByID(l.ID)
			Expect(err).To(Equal(catalog.ErrNotFound))
		})
	})
})
