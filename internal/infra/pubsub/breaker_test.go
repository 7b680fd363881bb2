package pubsub_test

import (
	"context"
	"errors"
	"time"

	"filter-module/internal/infra/pubsub"
	mockpubsub "filter-module/test/unit/doubles/infra/pubsub"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("BreakerPublisher", func() {
	var (
		ctx  context.Context
		ctrl *gomock.Controller
		next *mockpubsub.MockPublisher
		pub  *pubsub.BreakerPublisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		next = mockpubsub.NewMockPublisher(ctrl)
		pub = pubsub.NewBreakerPublisher(next, pubsub.BreakerOptions{
			Name:             "alerts",
			FailureThreshold: 3,
			OpenTimeout:      time.Minute,
		})
	})

	When("the downstream keeps failing", func() {
		It("should open and stop calling it", func() {
			next.EXPECT().
				Publish(gomock.Any(), pubsub.Key("k"), "v").
				Return(errors.New("kafka: client has run out of available brokers")).
				Times(3)

			for i := 0; i < 3; i++ {
				Expect(pub.Publish(ctx, "k", "v")).ToNot(Succeed())
			}

			err := pub.Publish(ctx, "k", "v")

			Expect(err).To(MatchError(pubsub.ErrCircuitOpen))
		})
	})

	Context("Close", func() {
		It("should close a wrapped publisher that holds resources", func() {
			factory := pubsub.NewMemoryPublisherFactory()
			memory, err := factory.New("filter-module-alerts", nil)
			Expect(err).ToNot(HaveOccurred())
			guarded := pubsub.NewBreakerPublisher(memory, pubsub.BreakerOptions{Name: "alerts"})

			Expect(guarded.Close()).To(Succeed())

			Expect(factory.Closed("filter-module-alerts")).To(BeTrue())
			Expect(guarded.Publish(ctx, "k", "v")).To(MatchError(pubsub.ErrPublisherClosed))
		})

		It("should be a no-op for publishers without resources", func() {
			Expect(pub.Close()).To(Succeed())
		})
	})
})

var _ = Describe("MemoryPublisherFactory", func() {
	It("should keep published messages per topic", func() {
		factory := pubsub.NewMemoryPublisherFactory()
		publisher, err := factory.New("filter-module-alerts", nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(publisher.Publish(context.Background(), "m-1", "alert")).To(Succeed())

		Expect(factory.Messages("filter-module-alerts")).To(ConsistOf(pubsub.MessageEvent{Key: "m-1", Message: "alert"}))
		Expect(factory.Messages("other")).To(BeEmpty())
	})

	It("should be selected for the local environment", func() {
		factory := pubsub.NewPublisherFactory(pubsub.FactoryOptions{Environment: pubsub.EnvironmentLocal})
		Expect(factory).To(BeAssignableToTypeOf(&pubsub.MemoryPublisherFactory{}))
	})
})
