package mqtt_test

import (
	"filter-module/internal/infra/mqtt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("MQTT Client", func() {
	ginkgo.Context("SimpleClientOpts", func() {
		var opts mqtt.SimpleClientOpts

		ginkgo.When("creating client options", func() {
			ginkgo.BeforeEach(func() {
				opts = mqtt.SimpleClientOpts{
					Broker:   "tcp://localhost:1883",
					ClientID: "edge-device-01/FilterModule",
					Username: "edgehub/edge-device-01/FilterModule/?api-version=2018-06-30",
				}
			})

			ginkgo.It("should have correct configuration values", func() {
				gomega.Expect(opts.Broker).To(gomega.Equal("tcp://localhost:1883"))
				gomega.Expect(opts.ClientID).To(gomega.Equal("edge-device-01/FilterModule"))
				gomega.Expect(opts.OnConnect).To(gomega.BeNil())
			})
		})

		ginkgo.When("the broker is unreachable", func() {
			ginkgo.It("should return an error instead of a client", func() {
				client, err := mqtt.NewSimpleClient(mqtt.SimpleClientOpts{
					Broker:   "tcp://127.0.0.1:1",
					ClientID: "unreachable",
				})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(client).To(gomega.BeNil())
			})
		})
	})

	ginkgo.Context("MessageTypeAlias", func() {
		ginkgo.When("checking message type alias", func() {
			ginkgo.It("should accept paho messages", func() {
				var _ mqtt.Message = (paho.Message)(nil)
			})
		})
	})
})
