package edgehub_test

import (
	"context"

	"filter-module/internal/filter/domain"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/edgehub"
	"filter-module/internal/infra/mqtt"
	mockmqtt "filter-module/test/unit/doubles/infra/mqtt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

var _ = Describe("ModuleClient", func() {
	var (
		ctx      context.Context
		ctrl     *gomock.Controller
		client   *mockmqtt.MockClient
		broker   *async.LocalBroker
		module   *edgehub.ModuleClient
		handlers map[string]mqtt.MessageHandler
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		client = mockmqtt.NewMockClient(ctrl)
		broker = async.NewLocalBroker()
		module = edgehub.NewModuleClient(broker, edgehub.ModuleClientOpts{DeviceID: "edge-device-01", ModuleID: "FilterModule"})
		handlers = make(map[string]mqtt.MessageHandler)

		client.EXPECT().
			Subscribe(gomock.Any(), mqtt.DefaultQoS, gomock.Any()).
			DoAndReturn(func(topic string, _ byte, handler mqtt.MessageHandler) error {
				handlers[topic] = handler
				return nil
			}).
			Times(4)
		client.EXPECT().
			Publish(gomock.Any(), []byte{}).
			Return(nil).
			Times(1)

		Expect(module.Attach(ctx, client)).To(Succeed())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("Attach", func() {
		It("should subscribe inputs, twin and method topics", func() {
			Expect(handlers).To(HaveKey("devices/edge-device-01/modules/FilterModule/inputs/#"))
			Expect(handlers).To(HaveKey("$iothub/twin/PATCH/properties/desired/#"))
			Expect(handlers).To(HaveKey("$iothub/twin/res/#"))
			Expect(handlers).To(HaveKey("$iothub/methods/POST/#"))
		})
	})

	Context("inbound input message", func() {
		It("should publish an envelope on the internal broker", func() {
			subscription, _ := broker.Subscribe(edgehub.BrokerTopicModuleInputs)

			handlers["devices/edge-device-01/modules/FilterModule/inputs/#"](client, fakeMessage{
				topic:   "devices/edge-device-01/modules/FilterModule/inputs/input1/$.mid=m-1&customTestKey=customTestValue",
				payload: []byte(`{"machine":{"temperature":26}}`),
			})

			var msg async.BrokerMessage
			Eventually(subscription.Receiver).Should(Receive(&msg))
			Expect(msg.Event).To(Equal("input1"))
			envelope, ok := msg.Value.(domain.Envelope)
			Expect(ok).To(BeTrue())
			Expect(envelope.MessageID()).To(Equal("m-1"))
			Expect(envelope.Properties()).To(HaveKeyWithValue("customTestKey", "customTestValue"))
		})
	})

	Context("desired properties", func() {
		It("should forward patches and full twins", func() {
			subscription, _ := broker.Subscribe(edgehub.BrokerTopicDesiredProperties)

			handlers["$iothub/twin/PATCH/properties/desired/#"](client, fakeMessage{
				topic:   "$iothub/twin/PATCH/properties/desired/?$version=2",
				payload: []byte(`{"TemperatureThreshold":30}`),
			})
			Eventually(subscription.Receiver).Should(Receive(HaveField("Event", edgehub.EventDesiredPatch)))

			handlers["$iothub/twin/res/#"](client, fakeMessage{
				topic:   "$iothub/twin/res/200/?$rid=1",
				payload: []byte(`{"desired":{"TemperatureThreshold":30}}`),
			})
			Eventually(subscription.Receiver).Should(Receive(HaveField("Event", edgehub.EventFullTwin)))
		})

		It("should not forward reported property acknowledgements", func() {
			subscription, _ := broker.Subscribe(edgehub.BrokerTopicDesiredProperties)

			handlers["$iothub/twin/res/#"](client, fakeMessage{topic: "$iothub/twin/res/204/?$rid=1&$version=3"})

			Consistently(subscription.Receiver).ShouldNot(Receive())
		})
	})

	Context("method requests", func() {
		It("should publish the method name and request id", func() {
			subscription, _ := broker.Subscribe(edgehub.BrokerTopicMethodRequests)

			handlers["$iothub/methods/POST/#"](client, fakeMessage{topic: "$iothub/methods/POST/CheckStatus/?$rid=9"})

			var msg async.BrokerMessage
			Eventually(subscription.Receiver).Should(Receive(&msg))
			Expect(msg.Value).To(Equal(edgehub.MethodRequest{Name: "CheckStatus", RequestID: "9"}))
		})
	})

	Context("SendToOutput", func() {
		It("should publish on the events topic with the output name", func() {
			client.EXPECT().
				Publish("devices/edge-device-01/modules/FilterModule/messages/events/%24.on=output1&MessageType=Alert", []byte("x")).
				Return(nil)

			envelope := domain.NewEnvelope([]byte("x"), domain.WithProperties(map[string]string{"MessageType": "Alert"}))
			Expect(module.SendToOutput(ctx, "output1", envelope)).To(Succeed())
		})
	})

	Context("SendMethodResponse", func() {
		It("should publish on the method response topic", func() {
			client.EXPECT().Publish("$iothub/methods/res/200/?$rid=9", []byte("{}")).Return(nil)

			Expect(module.SendMethodResponse(ctx, "9", 200, []byte("{}"))).To(Succeed())
		})
	})
})
