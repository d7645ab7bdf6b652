package document_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enviohq/envio-backend/internal/document"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

var _ = Describe("DokumenKerjasama", func() {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	ts := func(t time.Time) *time.Time { return &t }

	Describe("EffectiveStatus", func() {
		It("should read draft without a validity window", func() {
			d := &document.DokumenKerjasama{}
			Expect(d.EffectiveStatus(now)).To(Equal(document.StatusDraft))
		})

		It("should read draft before the window opens", func() {
			d := &document.DokumenKerjasama{
				TanggalMulai:    ts(now.AddDate(0, 1, 0)),
				TanggalBerakhir: ts(now.AddDate(1, 1, 0)),
			}
			Expect(d.EffectiveStatus(now)).To(Equal(document.StatusDraft))
		})

		It("should read aktif inside the window", func() {
			d := &document.DokumenKerjasama{
				TanggalMulai:    ts(now.AddDate(0, -1, 0)),
				TanggalBerakhir: ts(now.AddDate(0, 6, 0)),
			}
			Expect(d.EffectiveStatus(now)).To(Equal(document.StatusAktif))
		})

		It("should read akan_kadaluarsa inside the warning window", func() {
			d := &document.DokumenKerjasama{
				TanggalMulai:    ts(now.AddDate(-1, 0, 0)),
				TanggalBerakhir: ts(now.AddDate(0, 0, 10)),
			}
			Expect(d.EffectiveStatus(now)).To(Equal(document.StatusAkanKadaluarsa))
		})

		It("should read kadaluarsa after the window closes", func() {
			d := &document.DokumenKerjasama{
				TanggalMulai:    ts(now.AddDate(-1, 0, 0)),
				TanggalBerakhir: ts(now.AddDate(0, 0, -1)),
			}
			Expect(d.EffectiveStatus(now)).To(Equal(document.StatusKadaluarsa))
		})

		It("should derive a different status as time passes without any write", func() {
			d := &document.DokumenKerjasama{
				TanggalMulai:    ts(now),
				TanggalBerakhir: ts(now.AddDate(0, 2, 0)),
			}
			Expect(d.EffectiveStatus(now)).To(Equal(document.StatusAktif))
			Expect(d.EffectiveStatus(now.AddDate(0, 2, -10))).To(Equal(document.StatusAkanKadaluarsa))
			Expect(d.EffectiveStatus(now.AddDate(0, 3, 0))).To(Equal(document.StatusKadaluarsa))
		})
	})
})
