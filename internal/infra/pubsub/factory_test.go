package pubsub_test

import (
	"context"
	"errors"

	"filter-module/internal/infra/pubsub"
	mockpubsub "filter-module/test/unit/doubles/infra/pubsub"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("NewGuardedPublisher", func() {
	var (
		ctrl    *gomock.Controller
		factory *mockpubsub.MockPublisherFactory
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		factory = mockpubsub.NewMockPublisherFactory(ctrl)
	})

	It("should wrap the publisher built for the topic", func() {
		publisher := mockpubsub.NewMockPublisher(ctrl)
		factory.EXPECT().New(pubsub.Topic("alerts"), gomock.Any()).Return(publisher, nil)
		publisher.EXPECT().Publish(gomock.Any(), pubsub.Key("edge-device-01"), "payload").Return(nil)

		guarded, err := pubsub.NewGuardedPublisher(factory, "alerts", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(guarded).To(BeAssignableToTypeOf(&pubsub.BreakerPublisher{}))

		Expect(guarded.Publish(context.Background(), "edge-device-01", "payload")).To(Succeed())
	})

	It("should return the factory error", func() {
		factory.EXPECT().New(gomock.Any(), gomock.Any()).Return(nil, errors.New("no brokers"))

		_, err := pubsub.NewGuardedPublisher(factory, "alerts", nil)
		Expect(err).To(MatchError("no brokers"))
	})
})

var _ = Describe("NewPublisherFactory", func() {
	It("should keep messages in memory for the local environment", func() {
		factory := pubsub.NewPublisherFactory(pubsub.FactoryOptions{Environment: pubsub.EnvironmentLocal})
		Expect(factory).To(BeAssignableToTypeOf(&pubsub.MemoryPublisherFactory{}))
	})
})
