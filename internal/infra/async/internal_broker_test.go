package async_test

import (
	"context"

	"filter-module/internal/infra/async"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Local Broker", func() {
	var broker *async.LocalBroker
	var topic async.BrokerTopicName
	var subscription async.Subscription
	var message async.BrokerMessage
	var ctx context.Context

	BeforeEach(func() {
		broker = async.NewLocalBroker()
		ctx = context.TODO()
	})

	Context("Subscribe", func() {
		When("add a new subscriber for a topic", func() {
			BeforeEach(func() {
				topic = "module_inputs"
			})

			It("should increase the number of subscriber", func() {
				subscription, _ = broker.Subscribe(topic)

				broker.Publish(ctx, topic, async.BrokerMessage{})

				Eventually(subscription.Receiver).Should(Receive(&async.BrokerMessage{}))
			})
		})

		When("multiple subscriptor", func() {
			var subscription2 async.Subscription
			BeforeEach(func() {
				topic = "module_inputs"
			})

			It("should increase the number of subscriber", func() {
				subscription, _ = broker.Subscribe(topic)
				subscription2, _ = broker.Subscribe(topic)

				broker.Publish(ctx, topic, async.BrokerMessage{})

				Eventually(subscription.Receiver).Should(Receive(&async.BrokerMessage{}))
				Eventually(subscription2.Receiver).Should(Receive(&async.BrokerMessage{}))
			})
		})

		When("a new message arrives", func() {
			BeforeEach(func() {
				topic = "module_alerts"
				subscription, _ = broker.Subscribe(topic)
				message = async.BrokerMessage{
					Event: "alert",
					Value: "{\"machine\":{\"temperature\":26}}",
				}
			})

			It("should receive a message from channel", func() {
				broker.Publish(context.TODO(), topic, message)

				Eventually(subscription.Receiver).Should(Receive(And(
					HaveField("Event", "alert"),
					HaveField("Value", "{\"machine\":{\"temperature\":26}}"),
				)))
			})
		})

		When("stop broker", func() {
			BeforeEach(func() {
				topic = "module_alerts"
				subscription, _ = broker.Subscribe(topic)
				message = async.BrokerMessage{
					Event: "alert",
					Value: "{\"machine\":{\"temperature\":26}}",
				}
			})

			It("should receive a done message", func() {
				go broker.Stop()

				Eventually(subscription.Receiver).Should(BeClosed())
			})
		})

		When("topic doesn't exists", func() {
			BeforeEach(func() {
				topic = "module_alerts"
				message = async.BrokerMessage{
					Event: "alert",
					Value: "{\"machine\":{\"temperature\":26}}",
				}
			})

			It("should receive a message from channel", func() {
				err := broker.Publish(context.TODO(), topic, message)

				Expect(err).ShouldNot(Succeed())
			})
		})
	})

	Context("Unsubscribe", func() {
		When("there is no subscriptor", func() {
			BeforeEach(func() {
				topic = "desired_properties"
				subscription = async.Subscription{
					ID: "2d582ce4-88e1-40a8-bc14-5cf0311943fd",
				}
			})

			It("should do nothing", func() {
				err := broker.Unsubscribe(topic, subscription)

				Expect(err).Should(MatchError(async.ErrTopicNotFound))
			})
		})
		When("subscriptor doesn't exists", func() {
			var subscription2 async.Subscription
			BeforeEach(func() {
				topic = "desired_properties"
				subscription, _ = broker.Subscribe(topic)
				subscription2 = async.Subscription{
					ID: "2d582ce4-88e1-40a8-bc14-5cf0311943fd",
				}
			})

			It("should do nothing", func() {
				err := broker.Unsubscribe(topic, subscription2)

				Expect(err).Should(MatchError(async.ErrSubscriptorNotFound))
			})
		})
		When("subscriptor does exists", func() {
			BeforeEach(func() {
				topic = "desired_properties"
				subscription, _ = broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)
				message = async.BrokerMessage{
					Event: "alert",
					Value: "{\"machine\":{\"temperature\":26}}",
				}
			})

			It("should not receive any message subscriptor", func() {
				broker.Publish(context.TODO(), topic, message)

				Eventually(subscription.Receiver).ShouldNot(Receive(And(
					HaveField("Event", "alert"),
					HaveField("Value", "{\"machine\":{\"temperature\":26}}"),
				)))
			})
		})
		When("is called twice", func() {
			BeforeEach(func() {
				topic = "desired_properties"
				subscription, _ = broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)

			})

			It("should remove subscriptor and don't panic", func() {
				err := broker.Unsubscribe(topic, subscription)

				Expect(err).Should(Succeed())
			})
		})
	})

	Context("Stop", func() {
		When("a publish is blocked on a full receiver", func() {
			BeforeEach(func() {
				topic = "module_inputs"
				subscription, _ = broker.Subscribe(topic)
				for i := 0; i < 80; i++ {
					broker.Publish(ctx, topic, async.BrokerMessage{Event: "telemetry"})
				}
			})

			It("should close the receiver without deadlocking", func() {
				done := make(chan struct{})
				go func() {
					broker.Stop()
					close(done)
				}()

				Eventually(done).Should(BeClosed())
			})
		})
	})

	Context("Publish", func() {
		When("topic doesn't exists", func() {
			BeforeEach(func() {
				topic = "method_requests"
			})

			It("should return an error", func() {
				err := broker.Publish(context.TODO(), topic, async.BrokerMessage{})

				Expect(err).ShouldNot(Succeed())
			})
		})

		When("there is no subscriptor", func() {
			BeforeEach(func() {
				topic = "method_requests"
				subcription, _ := broker.Subscribe(topic)
				broker.Unsubscribe(topic, subcription)
			})

			It("should return no error", func() {
				err := broker.Publish(context.TODO(), topic, async.BrokerMessage{})

				Expect(err).Should(Succeed())
			})
		})

		When("there is at least one subscriptor", func() {
			BeforeEach(func() {
				topic = "method_requests"
				subscription, _ = broker.Subscribe(topic)
			})

			It("should return no error", func() {
				err := broker.Publish(context.TODO(), topic, async.BrokerMessage{})

				Expect(err).Should(Succeed())
			})
		})
	})

	Context("PublishOrdered", func() {
		When("several messages are published in sequence", func() {
			BeforeEach(func() {
				topic = "desired_properties"
				subscription, _ = broker.Subscribe(topic)
			})

			It("should deliver them in call order", func() {
				for _, event := range []string{"first", "second", "third"} {
					Expect(broker.PublishOrdered(ctx, topic, async.BrokerMessage{Event: event})).To(Succeed())
				}

				Expect(subscription.Receiver).To(Receive(HaveField("Event", "first")))
				Expect(subscription.Receiver).To(Receive(HaveField("Event", "second")))
				Expect(subscription.Receiver).To(Receive(HaveField("Event", "third")))
			})
		})

		When("the receiver is full and the context is cancelled", func() {
			It("should give up with the context error", func() {
				topic = "desired_properties"
				subscription, _ = broker.Subscribe(topic)
				for i := 0; i < 64; i++ {
					Expect(broker.PublishOrdered(ctx, topic, async.BrokerMessage{})).To(Succeed())
				}

				cancelled, cancel := context.WithCancel(ctx)
				cancel()

				err := broker.PublishOrdered(cancelled, topic, async.BrokerMessage{})
				Expect(err).To(MatchError(context.Canceled))
			})
		})
	})
})
