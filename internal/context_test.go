package internal_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/budget-manager/internal"
)

var _ = Describe("WithTimeout", func() {
	It("uses the given duration", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), time.Second)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("<=", time.Second))
	})

	It("falls back to five seconds for non-positive durations", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically(">", 4*time.Second))
	})
})

var _ = Describe("Caller context", func() {
	It("round-trips the caller and treats a missing one as anonymous", func() {
		_, ok := internal.CallerFromContext(context.Background())
		Expect(ok).To(BeFalse())

		caller := &internal.Caller{ID: 7, Username: "alice", Role: internal.RoleUser, IsActive: true}
		got, ok := internal.CallerFromContext(internal.ContextWithCaller(context.Background(), caller))
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(caller))
	})
})
