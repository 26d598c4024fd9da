package events_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/budget-manager/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers events to type and wildcard subscribers", func() {
		var (
			mu       sync.Mutex
			received []string
		)
		record := func(tag string) events.Handler {
			return func(ctx context.Context, event events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				received = append(received, tag+":"+event.EventType())
				return nil
			}
		}
		bus.Subscribe(events.EventTypeAccountDeleted, record("typed"))
		bus.Subscribe(events.AllEvents, record("all"))

		Expect(bus.Publish(context.Background(), events.NewAccountDeletedEvent(1, 2, "bob"))).To(Succeed())
		Expect(bus.Publish(context.Background(), events.NewBulkActionEvent(1, "deactivate", []int64{2, 3}, 2))).To(Succeed())
		bus.Wait()

		Expect(received).To(ConsistOf(
			"typed:account.deleted",
			"all:account.deleted",
			"all:account.bulk_action",
		))
	})

	It("keeps running handlers after the publishing context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) error {
			done <- ctx.Err()
			return nil
		})
		cancel()
		Expect(bus.Publish(ctx, events.NewAccountCreatedEvent(1, 5, "carol", "user"))).To(Succeed())
		Eventually(done).Should(Receive(BeNil()))
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe(events.EventTypeAccountDeleted, func(ctx context.Context, event events.Event) error {
			return errors.New("boom")
		})
		err := bus.PublishSync(context.Background(), events.NewAccountDeletedEvent(1, 2, "bob"))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("writes audit records", func() {
		var buf bytes.Buffer
		handler := events.AuditLogger(slog.New(slog.NewTextHandler(&buf, nil)))
		Expect(handler(context.Background(), events.NewAccountDeletedEvent(1, 2, "bob"))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("event_type=account.deleted"))
		Expect(buf.String()).To(ContainSubstring("bob"))
	})
})
