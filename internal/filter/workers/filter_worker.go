package workers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/usecases"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/edgehub"
	"filter-module/internal/infra/node"
	"filter-module/internal/infra/pubsub"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	BrokerTopicAlerts async.BrokerTopicName = "module_alerts"
	EventAlert                              = "alert"

	PubSubTopicAlerts pubsub.Topic = "filter-module-alerts"
)

type FilterWorkerOpts struct {
	AlertOutput string
}

func NewFilterWorker(
	filter usecases.MessageFilter,
	sender usecases.OutputSender,
	broker async.InternalBroker,
	mirror pubsub.Publisher,
	identity *node.Node,
	opts FilterWorkerOpts,
) (*FilterWorker, error) {
	subscription, err := broker.Subscribe(edgehub.BrokerTopicModuleInputs)
	if err != nil {
		return nil, err
	}

	metrics, err := getFilterMetrics()
	if err != nil {
		slog.Warn("filter metrics disabled", slog.Any("error", err))
	}

	return &FilterWorker{
		filter:       filter,
		sender:       sender,
		broker:       broker,
		mirror:       mirror,
		identity:     identity,
		alertOutput:  opts.AlertOutput,
		subscription: subscription,
		metrics:      metrics,
		tracer:       otel.Tracer(_meterName),
	}, nil
}

var _ async.Worker = (*FilterWorker)(nil)

// FilterWorker pulls inbound envelopes from the internal broker, evaluates each
// one in its own goroutine and forwards alerts.
type FilterWorker struct {
	filter       usecases.MessageFilter
	sender       usecases.OutputSender
	broker       async.InternalBroker
	mirror       pubsub.Publisher
	identity     *node.Node
	alertOutput  string
	subscription async.Subscription
	metrics      *filterMetrics
	tracer       trace.Tracer
}

func (w *FilterWorker) Run(ctx context.Context, done func()) {
	slog.Debug("filter worker started", slog.String("output", w.alertOutput))
	defer done()
	defer w.closeMirror()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("filter worker cancelled")
			return
		case msg, ok := <-w.subscription.Receiver:
			if !ok {
				slog.Warn("filter worker subscription closed")
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.handle(ctx, msg)
			}()
		}
	}
}

// closeMirror flushes the upstream publisher once no handler can use it.
func (w *FilterWorker) closeMirror() {
	closer, ok := w.mirror.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("closing alert mirror", slog.Any("error", err))
	}
}

func (w *FilterWorker) handle(ctx context.Context, msg async.BrokerMessage) {
	envelope, ok := msg.Value.(domain.Envelope)
	if !ok {
		slog.Error("unexpected inbound message type", slog.Any("value", msg.Value))
		return
	}

	ctx, span := w.tracer.Start(ctx, "filter.evaluate", trace.WithAttributes(
		attribute.String("module.input", msg.Event),
		attribute.String("message.id", envelope.MessageID()),
	))
	defer span.End()

	w.metrics.record(ctx, outcomeReceived)

	alert, forward, err := w.filter.Evaluate(ctx, envelope)
	switch {
	case errors.Is(err, domain.ErrMalformedMessage):
		w.metrics.record(ctx, outcomeMalformed)
		span.SetStatus(codes.Error, "malformed message")
		slog.Error("error when filtering message",
			slog.String("input", msg.Event),
			slog.String("message_id", envelope.MessageID()),
			slog.Any("error", err),
		)
		return
	case err != nil:
		w.metrics.record(ctx, outcomeMalformed)
		span.RecordError(err)
		slog.Error("filtering message", slog.Any("error", err))
		return
	case !forward:
		w.metrics.record(ctx, outcomeDropped)
		slog.Debug("message below threshold", slog.String("message_id", envelope.MessageID()))
		return
	}

	if err := w.sender.SendToOutput(ctx, w.alertOutput, alert); err != nil {
		span.RecordError(err)
		slog.Error("forwarding alert", slog.String("output", w.alertOutput), slog.Any("error", err))
		return
	}
	w.metrics.record(ctx, outcomeForwarded)
	slog.Info("forwarded message to hub",
		slog.String("output", w.alertOutput),
		slog.String("message_id", alert.MessageID()),
	)

	w.fanOut(ctx, alert)
}

func (w *FilterWorker) fanOut(ctx context.Context, alert domain.Envelope) {
	record := domain.NewAlertRecord(w.identity.DeviceID, w.identity.ModuleID, w.alertOutput, alert, time.Now().UTC())
	record.TraceID = pubsub.ExtractTraceFromContext(ctx).TraceID

	err := w.broker.Publish(ctx, BrokerTopicAlerts, async.BrokerMessage{Event: EventAlert, Value: record})
	if err != nil && !errors.Is(err, async.ErrTopicNotFound) {
		slog.Error("publishing alert internally", slog.Any("error", err))
	}

	if w.mirror == nil {
		return
	}
	if err := w.mirror.Publish(ctx, pubsub.Key(record.DeviceID), record); err != nil {
		slog.Warn("mirroring alert upstream", slog.String("message_id", record.MessageID), slog.Any("error", err))
	}
}

func (w *FilterWorker) Shutdown() {
	w.broker.Unsubscribe(edgehub.BrokerTopicModuleInputs, w.subscription)
}
