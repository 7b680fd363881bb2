package workers

import (
	"context"
	"log/slog"
	"sync"

	"filter-module/internal/filter/usecases"
	"filter-module/internal/infra/async"
	"filter-module/internal/infra/edgehub"
)

func NewMethodWorker(
	service usecases.HeartbeatService,
	responder MethodResponder,
	broker async.InternalBroker,
) (*MethodWorker, error) {
	subscription, err := broker.Subscribe(edgehub.BrokerTopicMethodRequests)
	if err != nil {
		return nil, err
	}

	return &MethodWorker{
		service:      service,
		responder:    responder,
		broker:       broker,
		subscription: subscription,
	}, nil
}

var _ async.Worker = (*MethodWorker)(nil)

type MethodWorker struct {
	service      usecases.HeartbeatService
	responder    MethodResponder
	broker       async.InternalBroker
	subscription async.Subscription
}

func (w *MethodWorker) Run(ctx context.Context, done func()) {
	slog.Debug("method worker started")
	defer done()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("method worker cancelled")
			return
		case msg, ok := <-w.subscription.Receiver:
			if !ok {
				slog.Warn("method worker subscription closed")
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

func (w *MethodWorker) handle(ctx context.Context, msg async.BrokerMessage) {
	request, ok := msg.Value.(edgehub.MethodRequest)
	if !ok {
		slog.Error("unexpected method request type", slog.Any("value", msg.Value))
		return
	}

	response := w.service.HandleMethod(ctx, request.Name)
	if err := w.responder.SendMethodResponse(ctx, request.RequestID, response.Status, response.Payload); err != nil {
		slog.Error("sending method response", slog.String("method", request.Name), slog.Any("error", err))
		return
	}

	slog.Info("method response sent", slog.String("method", request.Name), slog.Int("status", response.Status))
}

func (w *MethodWorker) Shutdown() {
	w.broker.Unsubscribe(edgehub.BrokerTopicMethodRequests, w.subscription)
}
