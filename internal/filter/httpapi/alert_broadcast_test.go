package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/workers"
	"filter-module/internal/infra/async"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AlertWebSocketController broadcast", func() {
	var (
		broker     *async.LocalBroker
		controller *AlertWebSocketController
		server     *httptest.Server
		url        string
		conns      []*websocket.Conn
	)

	dial := func() *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).ToNot(HaveOccurred())
		conns = append(conns, conn)
		return conn
	}

	BeforeEach(func() {
		var err error
		broker = async.NewLocalBroker()
		controller, err = NewAlertWebSocketController(broker, AlertWebSocketControllerOpts{AllowedOrigins: []string{"*"}})
		Expect(err).ToNot(HaveOccurred())

		router := http.NewServeMux()
		controller.AddRoutes(router)
		server = httptest.NewServer(router)
		url = "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/alerts"
		conns = nil
	})

	AfterEach(func() {
		for _, conn := range conns {
			conn.Close()
		}
		controller.Shutdown()
		server.Close()
		broker.Stop()
	})

	When("one client write is stalled", func() {
		It("should keep registering clients and deliver to the others", func() {
			first := dial()
			second := dial()
			Eventually(controller.ConnectedClients).Should(Equal(2))

			stalled := controller.snapshot()[0]
			stalled.writeMu.Lock()
			released := false
			release := func() {
				if !released {
					released = true
					stalled.writeMu.Unlock()
				}
			}
			defer release()

			err := broker.Publish(context.Background(), workers.BrokerTopicAlerts, async.BrokerMessage{
				Event: workers.EventAlert,
				Value: domain.AlertRecord{MessageID: "msg-1", RaisedAt: time.Now()},
			})
			Expect(err).ToNot(HaveOccurred())

			dial()
			Eventually(controller.ConnectedClients, time.Second).Should(Equal(3))

			received := 0
			for _, conn := range []*websocket.Conn{first, second} {
				conn.SetReadDeadline(time.Now().Add(time.Second))
				var message map[string]any
				if conn.ReadJSON(&message) == nil {
					Expect(message).To(HaveKeyWithValue("message_id", "msg-1"))
					received++
				}
			}
			Expect(received).To(Equal(1))

			release()
		})
	})
})
