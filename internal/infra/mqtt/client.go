package mqtt

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

//go:generate mockgen -source=client.go -destination=../../../test/unit/doubles/infra/mqtt/client_mock.go -package=mqtt -mock_names=Client=MockClient

const (
	DefaultQoS       byte = 1 // At least once, as edgeHub expects
	_defaultRetained      = false
	_operationTimeout     = 5 * time.Second
	_disconnectQuiesce    = 5 * 1000
)

type Client interface {
	Subscribe(topic string, qos byte, callback MessageHandler) error
	Publish(topic string, payload []byte) error

	Disconnect()
}

type MessageHandler func(Client, Message)

type Message interface {
	Topic() string
	MessageID() uint16
	Payload() []byte
	Ack()
}

type SimpleClientOpts struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// OnConnect runs after every (re)connection, once subscriptions are restored.
	OnConnect func(Client)
}

type subscription struct {
	topic    string
	qos      byte
	callback MessageHandler
}

var _ Client = (*SimpleClient)(nil)

type SimpleClient struct {
	client        paho.Client
	subscriptions map[string]subscription
	onConnect     func(Client)
	mu            sync.RWMutex
}

func NewSimpleClient(opts SimpleClientOpts) (*SimpleClient, error) {
	simpleClient := &SimpleClient{
		subscriptions: make(map[string]subscription),
		onConnect:     opts.OnConnect,
	}

	onConnectHandler := func(client paho.Client) {
		slog.Info("connected to MQTT broker", slog.String("broker", opts.Broker))
		simpleClient.resubscribeAll(client)
		if simpleClient.onConnect != nil {
			go simpleClient.onConnect(simpleClient)
		}
	}

	onConnectionLostHandler := func(_ paho.Client, err error) {
		slog.Error("connection lost to MQTT broker", slog.Any("error", err))
	}

	pahoOpts := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetOnConnectHandler(onConnectHandler).
		SetAutoReconnect(true).
		SetConnectionLostHandler(onConnectionLostHandler).
		SetKeepAlive(10 * time.Second).
		SetConnectTimeout(_operationTimeout)

	client := paho.NewClient(pahoOpts)
	simpleClient.client = client

	token := client.Connect()
	if !token.WaitTimeout(_operationTimeout) {
		return nil, fmt.Errorf("connecting to %s: timed out", opts.Broker)
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("connecting to %s: %w", opts.Broker, token.Error())
	}

	return simpleClient, nil
}

func (c *SimpleClient) resubscribeAll(client paho.Client) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.subscriptions) == 0 {
		slog.Debug("no subscriptions to restore")
		return
	}

	slog.Info("restoring MQTT subscriptions after reconnection", slog.Int("count", len(c.subscriptions)))

	for topic, sub := range c.subscriptions {
		token := client.Subscribe(sub.topic, sub.qos, c.pahoCallback(sub.callback))
		token.WaitTimeout(_operationTimeout)
		if token.Error() != nil {
			slog.Error("failed to restore subscription after reconnection",
				slog.String("topic", topic), slog.Any("error", token.Error()))
		} else {
			slog.Debug("subscription restored", slog.String("topic", topic))
		}
	}
}

func (c *SimpleClient) pahoCallback(callback MessageHandler) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		callback(c, msg)
	}
}

func (c *SimpleClient) Subscribe(topic string, qos byte, callback MessageHandler) error {
	c.mu.Lock()
	c.subscriptions[topic] = subscription{
		topic:    topic,
		qos:      qos,
		callback: callback,
	}
	c.mu.Unlock()

	token := c.client.Subscribe(topic, qos, c.pahoCallback(callback))
	token.WaitTimeout(_operationTimeout)
	if token.Error() != nil {
		c.mu.Lock()
		delete(c.subscriptions, topic)
		c.mu.Unlock()
		return fmt.Errorf("subscribing to topic %s: %w", topic, token.Error())
	}

	slog.Info("subscribed to MQTT topic", slog.String("topic", topic), slog.Int("qos", int(qos)))
	return nil
}

func (c *SimpleClient) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, DefaultQoS, _defaultRetained, payload)
	if !token.WaitTimeout(_operationTimeout) {
		return fmt.Errorf("publishing to topic %s: timed out", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publishing to topic %s: %w", topic, token.Error())
	}

	return nil
}

func (c *SimpleClient) Disconnect() {
	c.mu.Lock()
	c.subscriptions = make(map[string]subscription)
	c.mu.Unlock()

	c.client.Disconnect(_disconnectQuiesce)
}
