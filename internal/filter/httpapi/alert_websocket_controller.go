package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/httpapi/internal"
	"filter-module/internal/filter/workers"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/httpserver"

	"github.com/gorilla/websocket"
)

const (
	_writeWait  = 10 * time.Second
	_pongWait   = 60 * time.Second
	_pingPeriod = 54 * time.Second
)

type AlertWebSocketControllerOpts struct {
	// AllowedOrigins lists browser origins allowed to open the stream. "*"
	// allows any; requests without an Origin header are always accepted.
	AllowedOrigins []string
}

// AlertWebSocketController streams every forwarded alert to connected clients.
type AlertWebSocketController struct {
	broker       async.InternalBroker
	subscription async.Subscription
	upgrader     websocket.Upgrader
	clients      map[*websocket.Conn]*alertClient
	clientsMux   sync.Mutex
	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
}

// alertClient serializes data frames to one connection. Control frames do not
// take writeMu.
type alertClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (a *alertClient) writeJSON(message any) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.conn.SetWriteDeadline(time.Now().Add(_writeWait))
	return a.conn.WriteJSON(message)
}

func NewAlertWebSocketController(broker async.InternalBroker, opts AlertWebSocketControllerOpts) (*AlertWebSocketController, error) {
	subscription, err := broker.Subscribe(workers.BrokerTopicAlerts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &AlertWebSocketController{
		broker:       broker,
		subscription: subscription,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		clients: make(map[*websocket.Conn]*alertClient),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go c.run()

	return c, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

var _ httpserver.Controller = (*AlertWebSocketController)(nil)

func (c *AlertWebSocketController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /ws/alerts", c.handleWebSocket())
}

func (c *AlertWebSocketController) Shutdown() {
	c.cancel()
	<-c.done
	c.broker.Unsubscribe(workers.BrokerTopicAlerts, c.subscription)
}

func (c *AlertWebSocketController) ConnectedClients() int {
	c.clientsMux.Lock()
	defer c.clientsMux.Unlock()
	return len(c.clients)
}

func (c *AlertWebSocketController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := c.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.Any("error", err))
			return
		}

		c.register(conn)
		slog.Info("alert stream client connected", slog.String("remote_addr", r.RemoteAddr))

		go c.keepAlive(conn)
		go c.readUntilClosed(conn)
	}
}

func (c *AlertWebSocketController) register(conn *websocket.Conn) {
	c.clientsMux.Lock()
	defer c.clientsMux.Unlock()
	c.clients[conn] = &alertClient{conn: conn}
}

func (c *AlertWebSocketController) unregister(conn *websocket.Conn) {
	c.clientsMux.Lock()
	_, ok := c.clients[conn]
	delete(c.clients, conn)
	c.clientsMux.Unlock()

	if ok {
		conn.Close()
	}
}

func (c *AlertWebSocketController) connected(conn *websocket.Conn) bool {
	c.clientsMux.Lock()
	defer c.clientsMux.Unlock()
	_, ok := c.clients[conn]
	return ok
}

// snapshot copies the client set so writes happen without the lock held.
func (c *AlertWebSocketController) snapshot() []*alertClient {
	c.clientsMux.Lock()
	defer c.clientsMux.Unlock()

	out := make([]*alertClient, 0, len(c.clients))
	for _, client := range c.clients {
		out = append(out, client)
	}
	return out
}

// readUntilClosed drains control frames so pongs are processed.
func (c *AlertWebSocketController) readUntilClosed(conn *websocket.Conn) {
	defer c.unregister(conn)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(_pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(_pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("alert stream read error", slog.Any("error", err))
			}
			return
		}
	}
}

func (c *AlertWebSocketController) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(_pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.connected(conn) {
				return
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(_writeWait)); err != nil {
				return
			}
		}
	}
}

func (c *AlertWebSocketController) run() {
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			c.closeAll()
			return
		case msg, ok := <-c.subscription.Receiver:
			if !ok {
				c.closeAll()
				return
			}
			record, isAlert := msg.Value.(domain.AlertRecord)
			if msg.Event != workers.EventAlert || !isAlert {
				continue
			}
			c.broadcast(toAlertMessage(record))
		}
	}
}

// broadcast writes to every client in parallel without holding the clients
// lock, so registrations and pings continue while a write is stalled.
func (c *AlertWebSocketController) broadcast(message internal.AlertMessage) {
	var wg sync.WaitGroup
	for _, client := range c.snapshot() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.writeJSON(message); err != nil {
				slog.Warn("dropping alert stream client", slog.Any("error", err))
				c.unregister(client.conn)
			}
		}()
	}
	wg.Wait()
}

func (c *AlertWebSocketController) closeAll() {
	c.clientsMux.Lock()
	conns := make([]*websocket.Conn, 0, len(c.clients))
	for conn := range c.clients {
		conns = append(conns, conn)
		delete(c.clients, conn)
	}
	c.clientsMux.Unlock()

	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(_writeWait))
		conn.Close()
	}
}

func toAlertMessage(record domain.AlertRecord) internal.AlertMessage {
	return internal.AlertMessage{
		Type:      "alert",
		MessageID: record.MessageID,
		DeviceID:  record.DeviceID,
		ModuleID:  record.ModuleID,
		Output:    record.Output,
		RaisedAt:  record.RaisedAt.Format(time.RFC3339Nano),
		Metadata:  record.Properties,
		Data:      record.Payload,
	}
}
