package workers

import (
	"context"
	"fmt"
	"log/slog"

	"filter-module/internal/filter/usecases"
	"filter-module/internal/infra/async"

	"github.com/robfig/cron/v3"
)

// NewHeartbeatWorker schedules heartbeats with a standard cron spec or a
// descriptor such as "@every 1m".
func NewHeartbeatWorker(service usecases.HeartbeatService, schedule string) (*HeartbeatWorker, error) {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))

	w := &HeartbeatWorker{service: service, cron: c}
	if _, err := c.AddFunc(schedule, w.beat); err != nil {
		return nil, fmt.Errorf("parsing heartbeat schedule %q: %w", schedule, err)
	}

	return w, nil
}

var _ async.Worker = (*HeartbeatWorker)(nil)

type HeartbeatWorker struct {
	service usecases.HeartbeatService
	cron    *cron.Cron
	ctx     context.Context
}

func (w *HeartbeatWorker) Run(ctx context.Context, done func()) {
	defer done()
	w.ctx = ctx

	w.cron.Start()
	slog.Debug("heartbeat worker started")

	<-ctx.Done()
	slog.Warn("heartbeat worker cancelled")
	w.Shutdown()
}

func (w *HeartbeatWorker) beat() {
	if err := w.service.SendHeartbeat(w.ctx); err != nil {
		slog.Error("scheduled heartbeat", slog.Any("error", err))
	}
}

// Shutdown stops scheduling and waits for a running heartbeat to finish.
func (w *HeartbeatWorker) Shutdown() {
	<-w.cron.Stop().Done()
}
