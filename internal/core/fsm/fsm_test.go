package fsm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/core/fsm"
)

func TestFSM(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FSM Suite")
}

var _ = Describe("Table", func() {
	var table *fsm.Table

	BeforeEach(func() {
		table = fsm.New("order",
			fsm.Edge{From: "open", To: "shipped"},
			fsm.Edge{From: "open", To: "cancelled"},
			fsm.Edge{From: "shipped", To: "delivered"},
		)
	})

	Describe("Can", func() {
		It("should allow declared edges", func() {
			Expect(table.Can("open", "shipped")).To(BeTrue())
			Expect(table.Can("shipped", "delivered")).To(BeTrue())
		})

		It("should reject undeclared edges", func() {
			Expect(table.Can("open", "delivered")).To(BeFalse())
			Expect(table.Can("shipped", "open")).To(BeFalse())
		})

		It("should reject unknown states", func() {
			Expect(table.Can("unknown", "shipped")).To(BeFalse())
		})
	})

	Describe("Guard", func() {
		It("should return nil for a legal transition", func() {
			Expect(table.Guard("open", "shipped")).To(Succeed())
		})

		It("should return a conflict error for an illegal transition", func() {
			err := table.Guard("delivered", "open")
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})
	})

	Describe("Terminal", func() {
		It("should report states without outgoing edges as terminal", func() {
			Expect(table.Terminal("delivered")).To(BeTrue())
			Expect(table.Terminal("cancelled")).To(BeTrue())
		})

		It("should report states with outgoing edges as non-terminal", func() {
			Expect(table.Terminal("open")).To(BeFalse())
			Expect(table.Terminal("shipped")).To(BeFalse())
		})
	})
})
