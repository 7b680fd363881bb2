package edgehub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"filter-module/internal/filter/domain"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/mqtt"

	"github.com/google/uuid"
)

const (
	BrokerTopicModuleInputs      async.BrokerTopicName = "module_inputs"
	BrokerTopicDesiredProperties async.BrokerTopicName = "desired_properties"
	BrokerTopicMethodRequests    async.BrokerTopicName = "method_requests"

	EventDesiredPatch = "desired_patch"
	EventFullTwin     = "full_twin"
	EventMethod       = "method"
)

// MethodRequest is a direct method invocation delivered by edgeHub.
type MethodRequest struct {
	Name      string
	RequestID string
	Payload   []byte
}

type ModuleClientOpts struct {
	DeviceID string
	ModuleID string
}

// ModuleClient speaks the edgeHub MQTT topic grammar. Inbound traffic is turned
// into values and published on the internal broker; it never calls into the
// filter directly.
type ModuleClient struct {
	broker   async.InternalBroker
	topics   Topics
	client   atomic.Pointer[mqttClientHolder]
	attached atomic.Bool
}

type mqttClientHolder struct {
	mqtt.Client
}

func NewModuleClient(broker async.InternalBroker, opts ModuleClientOpts) *ModuleClient {
	return &ModuleClient{
		broker: broker,
		topics: Topics{DeviceID: opts.DeviceID, ModuleID: opts.ModuleID},
	}
}

// Attach subscribes the module topics on client and requests the full twin.
func (c *ModuleClient) Attach(ctx context.Context, client mqtt.Client) error {
	c.client.Store(&mqttClientHolder{client})

	subscriptions := map[string]mqtt.MessageHandler{
		c.topics.InputsFilter(): c.inputHandler(ctx),
		_desiredPatchFilter:     c.desiredPatchHandler(ctx),
		_twinResponseFilter:     c.twinResponseHandler(ctx),
		_methodRequestFilter:    c.methodRequestHandler(ctx),
	}
	for topic, handler := range subscriptions {
		if err := client.Subscribe(topic, mqtt.DefaultQoS, handler); err != nil {
			return fmt.Errorf("attaching module client: %w", err)
		}
	}

	c.attached.Store(true)
	return c.RequestTwin(client)
}

// RequestTwin asks edgeHub for the full module twin. It is a no-op until the
// client is attached, so it is safe as an on-connect hook.
func (c *ModuleClient) RequestTwin(client mqtt.Client) error {
	if !c.attached.Load() {
		return nil
	}

	requestID := uuid.NewString()
	if err := client.Publish(twinGetTopic(requestID), []byte{}); err != nil {
		slog.Error("requesting module twin", slog.Any("error", err))
		return fmt.Errorf("requesting module twin: %w", err)
	}

	slog.Debug("module twin requested", slog.String("request_id", requestID))
	return nil
}

func (c *ModuleClient) mqttClient() (mqtt.Client, error) {
	holder := c.client.Load()
	if holder == nil {
		return nil, fmt.Errorf("module client is not attached")
	}
	return holder.Client, nil
}

// SendToOutput publishes e on the module events topic tagged with output.
func (c *ModuleClient) SendToOutput(_ context.Context, output string, e domain.Envelope) error {
	client, err := c.mqttClient()
	if err != nil {
		return err
	}

	topic := c.topics.Events(EncodePropertyBag(output, e))
	if err := client.Publish(topic, e.Payload()); err != nil {
		return fmt.Errorf("sending to output %s: %w", output, err)
	}

	return nil
}

func (c *ModuleClient) SendMethodResponse(_ context.Context, requestID string, status int, payload []byte) error {
	client, err := c.mqttClient()
	if err != nil {
		return err
	}

	if err := client.Publish(methodResponseTopic(status, requestID), payload); err != nil {
		return fmt.Errorf("sending method response %s: %w", requestID, err)
	}

	return nil
}

func (c *ModuleClient) ReportProperties(_ context.Context, properties map[string]any) error {
	client, err := c.mqttClient()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("marshaling reported properties: %w", err)
	}

	if err := client.Publish(reportedPatchTopic(uuid.NewString()), payload); err != nil {
		return fmt.Errorf("reporting properties: %w", err)
	}

	return nil
}

func (c *ModuleClient) inputHandler(ctx context.Context) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		input, bag, err := c.topics.ParseInput(msg.Topic())
		if err != nil {
			slog.Error("invalid input topic", slog.String("topic", msg.Topic()), slog.Any("error", err))
			return
		}

		envelope, err := DecodeEnvelope(bag, msg.Payload())
		if err != nil {
			slog.Error("invalid property bag", slog.String("topic", msg.Topic()), slog.Any("error", err))
			return
		}

		slog.Debug("module input received",
			slog.String("input", input),
			slog.String("message_id", envelope.MessageID()),
		)
		c.publish(ctx, BrokerTopicModuleInputs, async.BrokerMessage{Event: input, Value: envelope})
	}
}

func (c *ModuleClient) desiredPatchHandler(ctx context.Context) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		if !IsDesiredPatch(msg.Topic()) {
			slog.Warn("unexpected twin topic", slog.String("topic", msg.Topic()))
			return
		}
		c.publishOrdered(ctx, BrokerTopicDesiredProperties, async.BrokerMessage{Event: EventDesiredPatch, Value: msg.Payload()})
	}
}

func (c *ModuleClient) twinResponseHandler(ctx context.Context) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		status, requestID, err := ParseTwinResponse(msg.Topic())
		if err != nil {
			slog.Error("invalid twin response topic", slog.String("topic", msg.Topic()), slog.Any("error", err))
			return
		}

		switch {
		case status == http.StatusOK && len(msg.Payload()) > 0:
			c.publishOrdered(ctx, BrokerTopicDesiredProperties, async.BrokerMessage{Event: EventFullTwin, Value: msg.Payload()})
		case status >= http.StatusBadRequest:
			slog.Error("twin request rejected", slog.Int("status", status), slog.String("request_id", requestID))
		default:
			slog.Debug("twin request acknowledged", slog.Int("status", status), slog.String("request_id", requestID))
		}
	}
}

func (c *ModuleClient) methodRequestHandler(ctx context.Context) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		name, requestID, err := ParseMethodRequest(msg.Topic())
		if err != nil {
			slog.Error("invalid method topic", slog.String("topic", msg.Topic()), slog.Any("error", err))
			return
		}

		request := MethodRequest{Name: name, RequestID: requestID, Payload: msg.Payload()}
		c.publish(ctx, BrokerTopicMethodRequests, async.BrokerMessage{Event: EventMethod, Value: request})
	}
}

func (c *ModuleClient) publish(ctx context.Context, topic async.BrokerTopicName, msg async.BrokerMessage) {
	if err := c.broker.Publish(ctx, topic, msg); err != nil {
		slog.Error("dispatching to internal broker", slog.String("topic", string(topic)), slog.Any("error", err))
	}
}

// publishOrdered keeps twin updates in arrival order; the last patch wins.
func (c *ModuleClient) publishOrdered(ctx context.Context, topic async.BrokerTopicName, msg async.BrokerMessage) {
	if err := c.broker.PublishOrdered(ctx, topic, msg); err != nil {
		slog.Error("dispatching to internal broker", slog.String("topic", string(topic)), slog.Any("error", err))
	}
}
