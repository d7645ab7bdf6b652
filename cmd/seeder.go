package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts and service catalog entries for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := initGormDB(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"manifest_elektronik",
				"riwayat_pengangkutan",
				"invoices",
				"transaksi_layanan",
				"dokumen_kerjasama",
				"layanan",
				"users",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		accounts := []struct {
			Nama  string
			Email string
			Role  string
		}{
			{"Super Admin", "superadmin@envio.id", "superadmin"},
			{"Admin Keuangan", "keuangan@envio.id", "admin_keuangan"},
			{"Budi Santoso", "budi@mail.com", "user"},
		}

		for _, a := range accounts {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", a.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("user already exists, skipping:", a.Email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (nama, email, password_hash, role, envipoin, created_at, updated_at) VALUES (?, ?, ?, ?, 0, now(), now())",
				a.Nama, a.Email, string(hash), a.Role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Email, err)
			}
			fmt.Println("Seeded user:", a.Email, "role:", a.Role)
		}

		services := []struct {
			Nama       string
			Deskripsi  string
			Harga      int64
			DurasiHari int
			Reward     int64
		}{
			{"Bulanan Rumah Tangga", "pengangkutan sampah rumah tangga, 30 hari", 150000, 30, 100},
			{"Bulanan UMKM", "pengangkutan sampah usaha kecil, 30 hari", 350000, 30, 200},
			{"Tahunan Rumah Tangga", "pengangkutan sampah rumah tangga, 365 hari", 1500000, 365, 1500},
		}

		for _, s := range services {
			var exists int
			row := db.Raw("SELECT 1 FROM layanan WHERE nama = ?", s.Nama).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("layanan already exists, skipping:", s.Nama)
				continue
			}

			if err := db.Exec(
				"INSERT INTO layanan (nama, deskripsi, harga, durasi_hari, envipoin_reward, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				s.Nama, s.Deskripsi, s.Harga, s.DurasiHari, s.Reward).Error; err != nil {
				log.Fatalf("failed to insert layanan %s: %v", s.Nama, err)
			}
			fmt.Println("Seeded layanan:", s.Nama)
		}

		fmt.Println("Seeding complete")
	},
}
