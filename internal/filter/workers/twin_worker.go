package workers

import (
	"context"
	"log/slog"

	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/usecases"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/edgehub"
)

func NewTwinWorker(
	service usecases.DesiredPropertiesService,
	reporter PropertyReporter,
	broker async.InternalBroker,
) (*TwinWorker, error) {
	subscription, err := broker.Subscribe(edgehub.BrokerTopicDesiredProperties)
	if err != nil {
		return nil, err
	}

	return &TwinWorker{
		service:      service,
		reporter:     reporter,
		broker:       broker,
		subscription: subscription,
	}, nil
}

var _ async.Worker = (*TwinWorker)(nil)

// TwinWorker applies desired property patches in delivery order and reports
// the effective threshold back.
type TwinWorker struct {
	service      usecases.DesiredPropertiesService
	reporter     PropertyReporter
	broker       async.InternalBroker
	subscription async.Subscription
}

func (w *TwinWorker) Run(ctx context.Context, done func()) {
	slog.Debug("twin worker started")
	defer done()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("twin worker cancelled")
			return
		case msg, ok := <-w.subscription.Receiver:
			if !ok {
				slog.Warn("twin worker subscription closed")
				return
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *TwinWorker) handle(ctx context.Context, msg async.BrokerMessage) {
	payload, ok := msg.Value.([]byte)
	if !ok {
		slog.Error("unexpected desired properties type", slog.Any("value", msg.Value))
		return
	}

	change, err := w.service.Apply(ctx, payload)
	if err != nil {
		slog.Warn("ignoring desired properties", slog.String("event", msg.Event), slog.Any("error", err))
		return
	}
	if !change.Applied {
		return
	}

	reported := map[string]any{domain.TemperatureThresholdProperty: change.Current}
	if err := w.reporter.ReportProperties(ctx, reported); err != nil {
		slog.Error("reporting threshold", slog.Any("error", err))
	}
}

func (w *TwinWorker) Shutdown() {
	w.broker.Unsubscribe(edgehub.BrokerTopicDesiredProperties, w.subscription)
}
